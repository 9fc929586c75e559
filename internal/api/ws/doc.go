// Package ws streams child process output to the UI over WebSocket.
//
// Each connection subscribes to the event hub and receives every
// process_log and terminal_log event as JSON. A client may narrow the
// stream to one project with ?project_id= or a subscribe message.
//
// Message Types (Client → Server):
//   - ping: Keep-alive ping
//   - subscribe: Filter events to project_id ("" clears the filter)
//
// Message Types (Server → Client):
//   - system: Connection established
//   - process_log, terminal_log: One line of child output
//   - pong, subscribed: Control replies
//   - close: The server is shutting down
//   - error: Bad client message
//
// Example Usage:
//
//	handler := ws.NewHandler(root.Hub, logger)
//	router.GET("/stream", handler.HandleConnection)
package ws
