// Package api provides HTTP REST API handlers for the rover expedition
// server.
//
// The api package implements:
//   - RESTful endpoints for expedition operations
//   - Survey execution and map retrieval
//   - Planet catalog listing and creation
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Expedition Management:
//   - POST /api/expeditions - Create new expedition
//   - GET /api/expeditions - List all expeditions
//   - GET /api/expeditions/{id} - Get specific expedition
//   - DELETE /api/expeditions/{id} - Delete expedition
//
// Survey Operations:
//   - POST /api/expeditions/{id}/survey - Run a survey
//   - GET /api/expeditions/{id}/map - Get the latest survey map
//   - POST /api/expeditions/{id}/reset - Discard survey results
//   - GET /api/expeditions/{id}/movelog - Get move log with pagination
//
// Planet Catalog:
//   - GET /api/planets - List available planets
//   - POST /api/planets - Save a new planet
//   - GET /api/planets/{name} - Get a planet configuration
//
// Request/Response Format:
//
// All endpoints accept and return JSON. A survey is requested as POST with
// JSON body:
//
//	{
//	  "mode": "constrained|full", // optional, default "constrained"
//	  "battery": 20               // optional capacity override
//	}
//
// The survey response carries the assembled map, its dimensions, coverage
// statistics and a rover snapshot. WebSocket clients connected via
// /ws?expedition={id} receive the same report as a push message.
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api
