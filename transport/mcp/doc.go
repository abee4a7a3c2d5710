// Package mcp provides a Model Context Protocol server for the rover
// expedition service.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for expedition operations
//   - Expedition-aware command execution
//   - Stdio transport mode
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_expedition: Create new expedition with planet selection
//   - get_expedition: Get specific expedition details
//   - list_expeditions: List all active expeditions
//   - run_survey: Run a constrained or full survey
//   - survey_map: Get the latest assembled survey map
//   - move_log: Retrieve the rover move log with pagination
//   - reset_expedition: Discard survey results
//   - list_planets: List available planet configurations
//   - expedition_briefing: Get comprehensive mission instructions
//
// Architecture:
//
// The client is a thin proxy: every tool call is translated into a REST
// request against the expedition API server, so stdio MCP sessions and
// HTTP clients always observe the same state.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Launch expeditions on cataloged planets
//   - Run battery-constrained or full-surface surveys
//   - Inspect assembled maps and coverage statistics
//   - Audit the rover's move log
//   - Manage multiple expeditions independently
package mcp
