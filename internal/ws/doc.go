// Package ws provides WebSocket handling for live directory updates.
//
// A connected UI client subscribes to the directories its panes display;
// the server pushes filesystem change events so listings refresh without
// polling.
//
// Message Types (Client → Server):
//   - watch: start watching a directory
//   - unwatch: stop watching a directory
//   - ping: keep-alive ping
//
// Message Types (Server → Client):
//   - system: connection greeting
//   - watching / unwatched: subscription acknowledgements
//   - event: one filesystem change (path, op, at)
//   - pong: keep-alive reply
//   - error: request failed
//
// Example Usage:
//
//	handler := ws.NewHandler(watcher, metrics, logger)
//	router.GET("/stream", handler.HandleConnection)
package ws
