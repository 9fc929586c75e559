// Package id generates the identifiers handed out by the launcher.
//
// Every ID is a ULID behind a short type prefix (proc_, term_, req_, sub_).
// ULIDs from one generator are strictly increasing, so sorting IDs sorts
// records by creation.
package id

import (
	"crypto/rand"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ProcessID identifies a supervised dev-server process
type ProcessID string

// TerminalID identifies a terminal session
type TerminalID string

// RequestID identifies an API request
type RequestID string

// SubscriberID identifies an event stream subscriber
type SubscriberID string

const (
	ProcessPrefix    = "proc"
	TerminalPrefix   = "term"
	RequestPrefix    = "req"
	SubscriberPrefix = "sub"
)

// Generator hands out monotonic ULIDs
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// WithPrefix creates a ULID string of the form prefix_ULID
func (g *Generator) WithPrefix(prefix string) string {
	return prefix + "_" + g.Generate().String()
}

func next[T ~string](prefix string) T {
	return T(Default().WithPrefix(prefix))
}

// NewProcessID generates a new process ID
func NewProcessID() ProcessID { return next[ProcessID](ProcessPrefix) }

// NewTerminalID generates a new terminal session ID
func NewTerminalID() TerminalID { return next[TerminalID](TerminalPrefix) }

// NewRequestID generates a new request ID
func NewRequestID() RequestID { return next[RequestID](RequestPrefix) }

// NewSubscriberID generates a new event subscriber ID
func NewSubscriberID() SubscriberID { return next[SubscriberID](SubscriberPrefix) }

func (id ProcessID) String() string    { return string(id) }
func (id TerminalID) String() string   { return string(id) }
func (id RequestID) String() string    { return string(id) }
func (id SubscriberID) String() string { return string(id) }

// Parse returns the ULID inside a prefixed or bare ID
func Parse(id string) (ulid.ULID, error) {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	return ulid.Parse(id)
}

// Timestamp extracts the creation time from an ID
func Timestamp(id string) (time.Time, error) {
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
