// Package process supervises project dev servers and one-shot tasks.
//
// Start spawns `npm run start` and tracks the child until Stop or StopAll
// removes it. A record's presence in the supervisor means the server is
// considered running; nothing polls for unsolicited exits. Output is
// streamed line by line to an events.Sink, stdout and stderr separately.
//
// RunTask runs install and deploy commands synchronously and reports a
// non-zero exit as *types.ExitError.
package process
