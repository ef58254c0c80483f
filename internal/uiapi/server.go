package uiapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mvdwaal/gridday/internal/engine"
	"github.com/mvdwaal/gridday/internal/store"
)

// Server exposes the simulation engine to the presentation layer. It owns
// the live schedule; every mutation is applied under the lock, persisted,
// and answered with the recomputed derived state.
type Server struct {
	store   *store.Store
	catalog *engine.Catalog
	tariff  *engine.Tariff

	mu       sync.Mutex
	schedule *engine.Schedule
}

// NewServer builds a server around a persisted session, restoring any
// previously saved schedule.
func NewServer(st *store.Store, catalog *engine.Catalog, tariff *engine.Tariff) (*Server, error) {
	s := &Server{
		store:    st,
		catalog:  catalog,
		tariff:   tariff,
		schedule: engine.NewSchedule(catalog),
	}

	saved, err := st.LoadSchedule()
	if err != nil {
		return nil, err
	}
	s.schedule.Restore(saved)

	return s, nil
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS for local development
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/catalog", s.handleCatalog)
		r.Get("/tariff", s.handleTariff)
		r.Get("/state", s.handleState)
		r.Post("/schedule", s.handleScheduleActivity)
		r.Put("/schedule/{id}", s.handleMoveActivity)
		r.Delete("/schedule/{id}", s.handleRemoveActivity)
		r.Post("/day/end", s.handleEndDay)
		r.Post("/day/restart", s.handleRestartDay)
		r.Get("/tutorial", s.handleGetTutorial)
		r.Put("/tutorial", s.handlePutTutorial)
		r.Get("/history", s.handleHistory)
	})

	return r
}

// statePayload is what the UI re-renders after every mutation.
type statePayload struct {
	Schedule    []engine.ScheduledActivity `json:"schedule"`
	Metrics     engine.Metrics             `json:"metrics"`
	Suggestions []engine.Suggestion        `json:"suggestions"`
}

// currentState must be called with s.mu held.
func (s *Server) currentState() statePayload {
	snapshot := s.schedule.Snapshot()
	return statePayload{
		Schedule:    snapshot,
		Metrics:     engine.ComputeMetrics(snapshot, s.catalog, s.tariff),
		Suggestions: engine.Suggestions(snapshot, s.catalog, s.tariff),
	}
}

// persist must be called with s.mu held.
func (s *Server) persist() error {
	return s.store.SaveSchedule(s.schedule.Snapshot())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": "1.0.0",
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.catalog.All())
}

func (s *Server) handleTariff(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.tariff.Slots())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	state := s.currentState()
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, state)
}

type placementRequest struct {
	ActivityID string `json:"activity_id"`
	StartHour  int    `json:"start_hour"`
}

func (s *Server) handleScheduleActivity(w http.ResponseWriter, r *http.Request) {
	var req placementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.StartHour < 0 || req.StartHour >= engine.HoursPerDay {
		respondError(w, http.StatusUnprocessableEntity, "start_hour must be in [0, 23]")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Duplicate and unknown ids are deliberate no-ops; the UI just gets
	// the unchanged state back.
	if s.schedule.Add(req.ActivityID, req.StartHour) {
		if err := s.persist(); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	respondJSON(w, http.StatusOK, s.currentState())
}

func (s *Server) handleMoveActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req placementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.StartHour < 0 || req.StartHour >= engine.HoursPerDay {
		respondError(w, http.StatusUnprocessableEntity, "start_hour must be in [0, 23]")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule.Move(id, req.StartHour) {
		if err := s.persist(); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	respondJSON(w, http.StatusOK, s.currentState())
}

func (s *Server) handleRemoveActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.schedule.Remove(id)
	if err := s.persist(); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, s.currentState())
}

func (s *Server) handleEndDay(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	summary := engine.EndDay(s.schedule.Snapshot(), s.catalog, s.tariff)
	s.mu.Unlock()

	if err := s.store.SaveDaySummary(summary); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRestartDay(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.schedule.Clear()
	if err := s.store.ClearSchedule(); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, s.currentState())
}

type tutorialPayload struct {
	Seen bool `json:"seen"`
}

func (s *Server) handleGetTutorial(w http.ResponseWriter, r *http.Request) {
	seen, err := s.store.TutorialSeen()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, tutorialPayload{Seen: seen})
}

func (s *Server) handlePutTutorial(w http.ResponseWriter, r *http.Request) {
	var req tutorialPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.store.SetTutorialSeen(req.Seen); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, req)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	records, err := s.store.ListDaySummaries(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, records)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
