package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/planetintel/rover-expedition/expedition/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Planet Rover Expedition",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Planet Rover Expedition - MCP Interface

This is a thin client that proxies all requests to the REST API server.

MISSION OBJECTIVE:
Map as much of an unknown planet as a battery-constrained rover can cover
while always making it back to its home charging cell.

AVAILABLE TOOLS:
- create_expedition: Launch an expedition on a cataloged planet
- get_expedition: Get expedition details
- list_expeditions: List all active expeditions
- run_survey: Run a survey (constrained by battery, or full-surface)
- survey_map: Fetch the latest assembled map
- move_log: View the rover's move log
- reset_expedition: Discard survey results
- list_planets: List available planet configurations
- expedition_briefing: Get comprehensive mission instructions

Surveys are repeatable: each run deploys a fresh, fully charged rover.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Expedition management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_expedition",
		Description: "Create a new expedition with optional planet selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"planet_id": map[string]interface{}{
					"type":        "string",
					"description": "Identifier of the planet to explore (optional)",
				},
			},
		},
	}, c.handleCreateExpedition)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_expeditions",
		Description: "List all active expeditions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListExpeditions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_expedition",
		Description: "Get details of a specific expedition",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"expedition_id": map[string]interface{}{
					"type":        "string",
					"description": "Expedition ID to retrieve",
				},
			},
			Required: []string{"expedition_id"},
		},
	}, c.handleGetExpedition)

	// Survey operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_survey",
		Description: "Run a survey: deploys a fresh rover and maps the planet. Constrained mode respects the battery budget; full mode ignores it and maps the whole reachable surface.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"expedition_id": map[string]interface{}{
					"type":        "string",
					"description": "Expedition ID",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"constrained", "full"},
					"description": "Survey strategy (default: constrained)",
				},
				"battery": map[string]interface{}{
					"type":        "integer",
					"description": "Battery capacity override for constrained surveys (optional)",
				},
			},
			Required: []string{"expedition_id"},
		},
	}, c.handleRunSurvey)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "survey_map",
		Description: "Get the assembled map from the most recent survey",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"expedition_id": map[string]interface{}{
					"type":        "string",
					"description": "Expedition ID",
				},
			},
			Required: []string{"expedition_id"},
		},
	}, c.handleSurveyMap)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_expedition",
		Description: "Discard survey results and park a fresh rover at home",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"expedition_id": map[string]interface{}{
					"type":        "string",
					"description": "Expedition ID",
				},
			},
			Required: []string{"expedition_id"},
		},
	}, c.handleResetExpedition)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_log",
		Description: "Get the rover move log for an expedition",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"expedition_id": map[string]interface{}{
					"type":        "string",
					"description": "Expedition ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"expedition_id"},
		},
	}, c.handleMoveLog)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_planets",
		Description: "List available planet configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPlanets)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "expedition_briefing",
		Description: "Get comprehensive mission instructions and map legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleExpeditionBriefing)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateExpedition(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	planetID, _ := args["planet_id"].(string)

	body := map[string]string{}
	if planetID != "" {
		body["planet_id"] = planetID
	}

	var expedition service.ExpeditionInfo
	err := c.apiCall("POST", "/api/expeditions", body, &expedition)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created expedition: %s\nPlanet: %s\n", expedition.ID, expedition.PlanetName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListExpeditions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count       int                      `json:"count"`
		Expeditions []service.ExpeditionInfo `json:"expeditions"`
	}

	err := c.apiCall("GET", "/api/expeditions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Expeditions (%d):\n\n", response.Count)
	for _, e := range response.Expeditions {
		surveyed := "not surveyed"
		if e.SurveyRun {
			surveyed = "surveyed"
		}
		result += fmt.Sprintf("- %s (Planet: %s, %s, Created: %s)\n",
			e.ID, e.PlanetName, surveyed, e.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetExpedition(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	expeditionID, _ := args["expedition_id"].(string)

	var expedition service.ExpeditionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/expeditions/%s", expeditionID), nil, &expedition)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatExpeditionInfo(&expedition)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRunSurvey(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	expeditionID, _ := args["expedition_id"].(string)
	mode, _ := args["mode"].(string)

	body := map[string]interface{}{}
	if mode != "" {
		body["mode"] = mode
	}
	if battery, ok := args["battery"].(float64); ok {
		body["battery"] = int(battery)
	}

	var report service.SurveyReport
	err := c.apiCall("POST", fmt.Sprintf("/api/expeditions/%s/survey", expeditionID), body, &report)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSurveyReport(&report)), nil
}

func (c *Client) handleSurveyMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	expeditionID, _ := args["expedition_id"].(string)

	var report service.SurveyReport
	err := c.apiCall("GET", fmt.Sprintf("/api/expeditions/%s/map", expeditionID), nil, &report)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSurveyReport(&report)), nil
}

func (c *Client) handleResetExpedition(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	expeditionID, _ := args["expedition_id"].(string)

	var response struct {
		Message    string                 `json:"message"`
		Expedition service.ExpeditionInfo `json:"expedition"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/expeditions/%s/reset", expeditionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatExpeditionInfo(&response.Expedition))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	expeditionID, _ := args["expedition_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/expeditions/%s/movelog%s", expeditionID, params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveLog(&history)), nil
}

func (c *Client) handleListPlanets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var planets []service.PlanetInfo
	err := c.apiCall("GET", "/api/planets", nil, &planets)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Planets:\n\n"
	for _, p := range planets {
		result += fmt.Sprintf("• %s\n  %s\n  Grid: %dx%d, Battery: %d\n\n",
			p.PlanetID, p.Description, p.Rows, p.Cols, p.FullBattery)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleExpeditionBriefing(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	briefing := `Planet Rover Expedition - Mission Briefing

MISSION OBJECTIVE:
Map an unknown planet's surface with a remote rover. The rover starts on
its home charging cell with a full battery and must always be able to
return home, so the reachable region is bounded by the battery budget.

SURVEY MODES:
• constrained (default): The rover explores outward ring by ring. A cell
  is only entered when the trip out, one probing step, and the straight
  trip home all fit in the battery. Each survey run starts a fresh,
  fully charged rover, so runs are repeatable and deterministic.
• full: Battery limits are ignored and the rover traverses every
  reachable cell. Use this to get the ground-truth map of a planet.

MAP LEGEND:
• H - Home charging cell (the rover's start and return point)
• . - Free traversable ground
• w - Water (traversable)
• X - Obstructed, impassable terrain
• ? - Never observed within battery range

READING THE MAP:
The assembled map is cropped to the observed free surface. Obstructions
appear only where the rover bumped into them from an adjacent free cell.
A '?' does not mean empty: it means the rover could not afford to look.

BATTERY RULES:
• Each successful move costs 1 battery unit
• Refused moves (obstruction, map edge) cost nothing
• Entering the home cell recharges the battery to full capacity
• The constrained survey never strands the rover: it always ends at home

WORKFLOW:
1. list_planets to see the catalog
2. create_expedition with a planet_id
3. run_survey (optionally with mode or a battery override)
4. survey_map to re-read the latest map
5. move_log to audit every move the rover attempted

Each expedition has a unique 4-character ID and maintains independent
state. Multiple expeditions can run simultaneously.`

	return mcp.NewToolResultText(briefing), nil
}

// Formatting helpers

func formatExpeditionInfo(expedition *service.ExpeditionInfo) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Expedition: %s\nPlanet: %s\nCreated: %s\n",
		expedition.ID, expedition.PlanetName,
		expedition.CreatedAt.Format("2006-01-02 15:04:05")))

	if expedition.Rover != nil {
		b.WriteString(fmt.Sprintf("Rover: position (%d,%d), battery %d/%d\n",
			expedition.Rover.Position.Row, expedition.Rover.Position.Col,
			expedition.Rover.Battery, expedition.Rover.Capacity))
	}

	if expedition.SurveyRun {
		b.WriteString("Survey: results available (use survey_map)\n")
	} else {
		b.WriteString("Survey: not yet run\n")
	}

	return b.String()
}

func formatSurveyReport(report *service.SurveyReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Survey (%s) for expedition %s\n", report.Mode, report.ExpeditionID))
	if report.Mode == service.ModeConstrained {
		b.WriteString(fmt.Sprintf("Battery budget: %d\n", report.Battery))
	}
	b.WriteString(fmt.Sprintf("Discovered: %d cells (%d obstructed) | Moves: %d | Coverage: %.1f%%\n\n",
		report.DiscoveredCells, report.ObstructedCells, report.MovesUsed, report.CoveragePercent))

	if report.Rows == 0 {
		b.WriteString("(empty map: no traversable cell observed)\n")
	} else {
		b.WriteString(fmt.Sprintf("Map (%dx%d):\n%s\n", report.Rows, report.Cols, report.Map))
	}

	if report.Rover != nil {
		b.WriteString(fmt.Sprintf("\nRover parked at (%d,%d), battery %d/%d\n",
			report.Rover.Position.Row, report.Rover.Position.Col,
			report.Rover.Battery, report.Rover.Capacity))
	}

	return b.String()
}

func formatMoveLog(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Move Log (Page %d/%d) — Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "✓"
		if !move.Success {
			status = fmt.Sprintf("✗ %s", move.Reason)
		}
		result += fmt.Sprintf("%d. %s (%d,%d)→(%d,%d) [Battery: %d] %s\n",
			move.MoveNumber, move.Direction,
			move.From.Row, move.From.Col, move.To.Row, move.To.Col,
			move.Battery, status)
	}

	return result
}
