// Package terminal runs ad-hoc shell commands in per-project sessions.
//
// A session is opened explicitly and may be reused for any number of
// commands, one at a time:
//
//	idle -> running -> completed | error
//
// Any state but running accepts a new command. A project may hold a limited
// number of open sessions (three by default).
package terminal
