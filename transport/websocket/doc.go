// Package websocket provides WebSocket transport for the rover expedition
// server.
//
// The websocket package implements:
//   - Real-time survey result broadcasting
//   - Expedition-aware WebSocket connections
//   - Connection lifecycle management
//   - Message routing and handling
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// goroutine that manages reading, writing, and cleanup.
//
// Message Protocol:
//
// Messages are JSON-encoded. After each survey run the full SurveyReport is
// pushed to every client watching the expedition:
//   - Outgoing: {expedition_id: "ab12", event: "survey_update", report: {...}}
//
// Expedition Integration:
//
// WebSocket connections are expedition-aware. Clients specify their
// expedition ID via query parameter (?expedition=ab12) when establishing
// the connection. Survey updates are broadcast only to clients connected to
// the same expedition.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
// Connection Lifecycle:
//
// 1. Client connects with expedition ID
// 2. Connection registered with hub
// 3. Client receives survey updates as expeditions run
// 4. Disconnection triggers cleanup
//
// Concurrency:
//
// The hub and client handlers are designed for concurrent operation.
// Multiple clients can connect, disconnect, and receive messages
// simultaneously without blocking each other.
package websocket
