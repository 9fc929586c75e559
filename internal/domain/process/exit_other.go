//go:build !linux

package process

// awaitExit reports false: without waitid the exit is only seen by reaping
func awaitExit(int) bool {
	return false
}
