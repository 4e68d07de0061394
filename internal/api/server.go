package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/netutil"

	"github.com/recipe-engine/backend/internal/config"
	"github.com/recipe-engine/backend/internal/engine"
)

var errInvalidCount = errors.New("Parameter 'n' must be a positive integer")

// Recommender is the engine surface the API serves.
type Recommender interface {
	Recommend(query string, n int) []engine.Recommendation
	Surprise() engine.Recommendation
	Quick(n int) []engine.Recommendation
	Record(id int) (engine.Recommendation, bool)
	Stats() engine.EngineStats
}

type Server struct {
	Engine Recommender
	Config config.ServerConfig
	Logger *logrus.Entry
	Router *http.ServeMux
}

func NewServer(eng Recommender, cfg config.ServerConfig, logger *logrus.Entry) *Server {
	s := &Server{
		Engine: eng,
		Config: cfg,
		Logger: logger,
		Router: http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.HandleFunc("/api/v1/recommend", s.handleRecommend)
	s.Router.HandleFunc("/api/v1/surprise", s.handleSurprise)
	s.Router.HandleFunc("/api/v1/quick", s.handleQuick)
	s.Router.HandleFunc("/api/v1/recipes/{id}", s.handleRecipe)
	s.Router.HandleFunc("/api/v1/status", s.handleStatus)
}

// Handler returns the router wrapped with request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.Router)
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.Config.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, s.Config.MaxConnections)
	}

	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.Config.ReadTimeout,
		WriteTimeout: s.Config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Infof("Starting API Server on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("Shutting down API Server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// Responses
type ErrorResponse struct {
	Error string `json:"error"`
}

type RecommendResponse struct {
	Query   string                  `json:"query"`
	Results []engine.Recommendation `json:"results"`
}

type QuickResponse struct {
	Results []engine.Recommendation `json:"results"`
}

type StatusResponse struct {
	Recipes        int       `json:"recipes"`
	VocabularySize int       `json:"vocabulary_size"`
	LoadedAt       time.Time `json:"loaded_at"`
	Uptime         string    `json:"uptime"`
}

// Handlers

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	n, err := parseCount(r, s.Config.DefaultResults, s.Config.MaxResults)
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	query := r.URL.Query().Get("q")
	jsonResponse(w, http.StatusOK, RecommendResponse{
		Query:   query,
		Results: s.Engine.Recommend(query, n),
	})
}

func (s *Server) handleSurprise(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonResponse(w, http.StatusOK, s.Engine.Surprise())
}

func (s *Server) handleQuick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	n, err := parseCount(r, s.Config.QuickResults, s.Config.QuickResults)
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	jsonResponse(w, http.StatusOK, QuickResponse{Results: s.Engine.Quick(n)})
}

func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Recipe id must be an integer"})
		return
	}

	rec, ok := s.Engine.Record(id)
	if !ok {
		jsonResponse(w, http.StatusNotFound, ErrorResponse{Error: "Recipe not found"})
		return
	}
	jsonResponse(w, http.StatusOK, rec)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats := s.Engine.Stats()
	jsonResponse(w, http.StatusOK, StatusResponse{
		Recipes:        stats.Recipes,
		VocabularySize: stats.VocabularySize,
		LoadedAt:       stats.LoadedAt,
		Uptime:         time.Since(stats.LoadedAt).Round(time.Second).String(),
	})
}

// parseCount reads the n query parameter, applying def when absent and
// capping at max.
func parseCount(r *http.Request, def, max int) (int, error) {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errInvalidCount
	}
	if n > max {
		n = max
	}
	return n, nil
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
