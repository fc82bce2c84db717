package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/TobiSchelling/sportspage/internal/prefs"
	"github.com/TobiSchelling/sportspage/internal/render"
	"github.com/TobiSchelling/sportspage/internal/sports"
)

const maxPrefsBody = 64 << 10

// Server is the HTTP server for the sports page.
type Server struct {
	store    prefs.Store
	loader   Loader
	renderer *render.Renderer
	opts     render.Options
	mux      *http.ServeMux
}

// New creates a new Server.
func New(store prefs.Store, loader Loader, opts render.Options) (*Server, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	opts.Interactive = true

	s := &Server{store: store, loader: loader, renderer: renderer, opts: opts, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// Static files
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(render.StaticFS()))))

	// Routes
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /data/sports_data.json", s.handleData)
	s.mux.HandleFunc("POST /preferences/leagues/{key}/toggle", s.handleToggleLeague)
	s.mux.HandleFunc("POST /preferences/box-scores/toggle", s.handleToggleBoxScores)
	s.mux.HandleFunc("POST /preferences/reset", s.handleReset)
	s.mux.HandleFunc("GET /api/preferences", s.handleGetPreferences)
	s.mux.HandleFunc("PUT /api/preferences", s.handlePutPreferences)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	p, err := prefs.Load(s.store)
	if err != nil {
		log.Printf("Loading preferences: %v", err)
	}

	data, err := s.loader.Load(r.Context())
	if err != nil {
		log.Printf("Loading sports data: %v", err)
		s.renderError(w, err)
		return
	}
	doc, err := sports.ParseDocument(data)
	if err != nil {
		log.Printf("Parsing sports data: %v", err)
		s.renderError(w, err)
		return
	}

	page, err := s.renderer.Render(doc, p, s.opts)
	if err != nil {
		log.Printf("Error rendering page: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(page)
}

func (s *Server) renderError(w http.ResponseWriter, cause error) {
	page, err := s.renderer.RenderError(cause, s.opts)
	if err != nil {
		log.Printf("Error rendering error page: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusServiceUnavailable)
	w.Write(page)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	data, err := s.loader.Load(r.Context())
	if errors.Is(err, render.ErrNoArtifact) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Printf("Loading sports data: %v", err)
		http.Error(w, "Bad gateway", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

func (s *Server) handleToggleLeague(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	s.mutate(w, r, func(p prefs.Preferences) prefs.Preferences { return p.ToggleLeague(key) })
}

func (s *Server) handleToggleBoxScores(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, prefs.Preferences.ToggleBoxScores)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(prefs.Preferences) prefs.Preferences { return prefs.Defaults() })
}

func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(prefs.Preferences) prefs.Preferences) {
	if _, err := prefs.Mutate(s.store, fn); err != nil {
		log.Printf("Updating preferences: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := prefs.Load(s.store)
	if err != nil {
		log.Printf("Loading preferences: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, p)
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPrefsBody))
	if err != nil {
		http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	p := prefs.Decode(body)
	if err := prefs.Save(s.store, p); err != nil {
		log.Printf("Saving preferences: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, p)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Encoding response: %v", err)
	}
}

// Serve starts the HTTP server on the given port and stops it when ctx is
// cancelled.
func Serve(ctx context.Context, srv *Server, port int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on http://%s", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
