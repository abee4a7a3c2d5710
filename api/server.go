package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/planetintel/rover-expedition/expedition/planet"
	"github.com/planetintel/rover-expedition/expedition/service"
	"github.com/planetintel/rover-expedition/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.ExpeditionService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(expeditionService service.ExpeditionService, hub *websocket.Hub) *Server {
	s := &Server{
		service: expeditionService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// API routes with clean REST patterns
	api := s.router.PathPrefix("/api").Subrouter()

	// Expedition management
	api.HandleFunc("/expeditions", s.handleCreateExpedition).Methods("POST")
	api.HandleFunc("/expeditions", s.handleListExpeditions).Methods("GET")
	api.HandleFunc("/expeditions/{id}", s.handleGetExpedition).Methods("GET")
	api.HandleFunc("/expeditions/{id}", s.handleDeleteExpedition).Methods("DELETE")

	// Survey operations
	api.HandleFunc("/expeditions/{id}/survey", s.handleRunSurvey).Methods("POST")
	api.HandleFunc("/expeditions/{id}/map", s.handleGetSurveyMap).Methods("GET")
	api.HandleFunc("/expeditions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/expeditions/{id}/movelog", s.handleGetMoveLog).Methods("GET")

	// Planet catalog
	api.HandleFunc("/planets", s.handleListPlanets).Methods("GET")
	api.HandleFunc("/planets", s.handleCreatePlanet).Methods("POST")
	api.HandleFunc("/planets/{name}", s.handleGetPlanet).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Health check
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Static files (if needed)
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir("./static/")))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Expedition Handlers

func (s *Server) handleCreateExpedition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlanetID   string `json:"planet_id,omitempty"`
		PlanetName string `json:"planet_name,omitempty"` // Deprecated, use planet_id
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	// Support both new and old parameter names, but prefer planet_id
	planetID := req.PlanetID
	if planetID == "" && req.PlanetName != "" {
		planetID = req.PlanetName
	}

	expedition, err := s.service.CreateExpedition(r.Context(), planetID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, expedition)
}

func (s *Server) handleListExpeditions(w http.ResponseWriter, r *http.Request) {
	expeditions, err := s.service.ListExpeditions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of expeditions to return

	// Set defaults
	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	// Sort expeditions
	sort.Slice(expeditions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = expeditions[i].CreatedAt, expeditions[j].CreatedAt
		} else { // "accessed"
			ti, tj = expeditions[i].LastAccessedAt, expeditions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj) // desc
	})

	// Apply limit if specified
	limit := len(expeditions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(expeditions) {
			limit = l
		}
	}
	expeditions = expeditions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":       len(expeditions),
		"total":       len(expeditions),
		"expeditions": expeditions,
		"sort":        sortBy,
		"order":       order,
	})
}

func (s *Server) handleGetExpedition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	expeditionID := vars["id"]

	expedition, err := s.service.GetExpedition(r.Context(), expeditionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, expedition)
}

func (s *Server) handleDeleteExpedition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	expeditionID := vars["id"]

	err := s.service.DeleteExpedition(r.Context(), expeditionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Expedition %s deleted", expeditionID),
	})
}

// Survey Operation Handlers

func (s *Server) handleRunSurvey(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	expeditionID := vars["id"]

	var opts service.SurveyOptions
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&opts)
	}

	report, err := s.service.RunSurvey(r.Context(), expeditionID, opts)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Broadcast to WebSocket clients
	if s.hub != nil {
		s.hub.BroadcastReport(expeditionID, report)
	}

	// Compact server log for observability
	fmt.Printf("[SURVEY] expedition=%s mode=%s batt=%d cells=%d obstructed=%d moves=%d coverage=%.1f%%\n",
		expeditionID, report.Mode, report.Battery, report.DiscoveredCells,
		report.ObstructedCells, report.MovesUsed, report.CoveragePercent)

	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetSurveyMap(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	expeditionID := vars["id"]

	report, err := s.service.GetSurveyMap(r.Context(), expeditionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	expeditionID := vars["id"]

	expedition, err := s.service.ResetExpedition(r.Context(), expeditionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	// Broadcast to WebSocket clients
	if s.hub != nil {
		s.hub.BroadcastEvent(expeditionID, "reset", expedition)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Expedition reset successfully",
		"expedition": expedition,
	})
}

func (s *Server) handleGetMoveLog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	expeditionID := vars["id"]

	// Parse query parameters
	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}

	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetMoveLog(r.Context(), expeditionID, opts)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Planet Catalog Handlers

func (s *Server) handleListPlanets(w http.ResponseWriter, r *http.Request) {
	planets, err := s.service.ListPlanets(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, planets)
}

func (s *Server) handleGetPlanet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	planetName := vars["name"]

	// Remove .json extension if present
	planetName = strings.TrimSuffix(planetName, ".json")

	config, err := s.service.LoadPlanet(r.Context(), planetName)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, config)
}

func (s *Server) handleCreatePlanet(w http.ResponseWriter, r *http.Request) {
	// Decode directly into planet.Config which has the correct structure
	var config planet.Config

	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Validate required fields
	if config.Name == "" {
		respondError(w, http.StatusBadRequest, "Planet name is required")
		return
	}

	// Save configuration
	if err := s.service.SavePlanet(r.Context(), config.Name, &config); err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save planet: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Planet saved successfully",
		"planet_id": config.Name,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	expeditionID := r.URL.Query().Get("expedition")
	if expeditionID == "" {
		http.Error(w, "expedition parameter required", http.StatusBadRequest)
		return
	}

	// Verify expedition exists
	_, err := s.service.GetExpedition(context.Background(), expeditionID)
	if err != nil {
		http.Error(w, "Invalid expedition", http.StatusNotFound)
		return
	}

	// Upgrade to WebSocket
	s.hub.ServeWS(w, r, expeditionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
