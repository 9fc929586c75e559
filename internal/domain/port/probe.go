package port

import (
	"net"
	"strconv"
)

// MaxPort is the highest TCP port
const MaxPort = 65535

// Prober reports whether a TCP port can be bound right now
type Prober interface {
	Available(port int) bool
}

// LoopbackProbe binds 127.0.0.1:port and releases it immediately
type LoopbackProbe struct{}

// Available reports whether port is bindable on loopback
func (LoopbackProbe) Available(port int) bool {
	if port < 1 || port > MaxPort {
		return false
	}
	ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
}

// Available reports whether port is bindable on loopback
func Available(port int) bool {
	return LoopbackProbe{}.Available(port)
}
