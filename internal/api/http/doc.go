// Package http exposes the launcher's command surface over REST.
//
// Each handler binds a request type from shared/types, calls the owning
// domain component, and maps domain errors through types.StatusCode and
// types.Message. Child output is not returned here; it is streamed over
// the WebSocket endpoint in api/ws.
package http
