// Package websocket relays connector messages over WebSocket.
//
// Clients connect to /api/v1/sessions/:id/ws. Every message published for
// the session is pushed to the client, and text frames sent by the client
// are validated and published in turn.
package websocket
