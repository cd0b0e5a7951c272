package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/flarebyte/baldrick-gitvault/internal/orchestrate"
	"github.com/flarebyte/baldrick-gitvault/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Service supplies the operations the API exposes. The command layer wires
// these to the orchestrator and store so the router stays testable.
type Service struct {
	Version string
	Backup  func(ctx context.Context, note string) (*orchestrate.Report, error)
	List    func(ctx context.Context) ([]storage.Meta, error)
}

// NewRouter builds the daemon's HTTP API.
func NewRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/v1/status", func(w http.ResponseWriter, req *http.Request) {
		metas, err := svc.List(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"version":  svc.Version,
			"archives": len(metas),
		})
	})

	r.Get("/v1/archives", func(w http.ResponseWriter, req *http.Request) {
		metas, err := svc.List(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, metas)
	})

	r.Post("/v1/backup", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Note string `json:"note"`
		}
		if req.Body != nil {
			// An empty body means a backup with no note.
			_ = json.NewDecoder(req.Body).Decode(&body)
		}
		rep, err := svc.Backup(req.Context(), body.Note)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusCreated, rep)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
