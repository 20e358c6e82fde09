package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-sdk/internal/analytics"
	"github.com/sells-group/outreach-sdk/internal/lifecycle"
	"github.com/sells-group/outreach-sdk/internal/model"
	"github.com/sells-group/outreach-sdk/internal/registry"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lead qualification API over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := buildEnv()
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Error("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		if err := saveSnapshot(env.registry); err != nil {
			zap.L().Error("save snapshot on shutdown", zap.Error(err))
		}
		return nil
	},
}

// newRouter builds the REST boundary over the SDK operations.
func newRouter(env *env) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, env.health.Check(req.Context()))
	})

	r.Get("/analytics", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, analytics.Summarize(env.registry.Snapshot()))
	})

	r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, buildStats(env.registry, env.sources))
	})

	r.Route("/leads", func(r chi.Router) {
		r.Post("/", env.handleCreateLead)
		r.Get("/", env.handleListLeads)
		r.Post("/process", env.handleProcessBatch)

		r.Route("/{leadID}", func(r chi.Router) {
			r.Get("/", env.handleGetLead)
			r.Patch("/", env.handleUpdateLead)
			r.Delete("/", env.handleDeleteLead)
			r.Post("/enrich", env.handleEnrichLead)
			r.Post("/score", env.handleScoreLead)
			r.Post("/process", env.handleProcessLead)
		})
	})

	return r
}

type createLeadRequest struct {
	Company  model.Company   `json:"company"`
	Contacts []model.Contact `json:"contacts"`
	Source   string          `json:"source"`
	Tags     []string        `json:"tags"`
}

func (e *env) handleCreateLead(w http.ResponseWriter, req *http.Request) {
	var body createLeadRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lead, err := e.registry.Create(body.Company, body.Contacts, body.Source, body.Tags)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (e *env) handleListLeads(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	leads := e.registry.List(registry.Filter{
		Status: model.LeadStatus(q.Get("status")),
		Tags:   q["tag"],
		Limit:  limit,
	})
	writeJSON(w, http.StatusOK, leads)
}

func (e *env) handleGetLead(w http.ResponseWriter, req *http.Request) {
	lead := e.registry.Get(chi.URLParam(req, "leadID"))
	if lead == nil {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (e *env) handleUpdateLead(w http.ResponseWriter, req *http.Request) {
	var updates map[string]any
	if err := json.NewDecoder(req.Body).Decode(&updates); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	normalized, err := normalizeUpdates(updates)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	lead, err := e.registry.Update(chi.URLParam(req, "leadID"), normalized)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (e *env) handleDeleteLead(w http.ResponseWriter, req *http.Request) {
	if !e.registry.Delete(chi.URLParam(req, "leadID")) {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type enrichRequest struct {
	Sources      []string `json:"sources"`
	ForceRefresh bool     `json:"force_refresh"`
}

func (e *env) handleEnrichLead(w http.ResponseWriter, req *http.Request) {
	lead := e.registry.Get(chi.URLParam(req, "leadID"))
	if lead == nil {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}

	var body enrichRequest
	decodeOptionalBody(req, &body)

	if err := e.orchestrator.Enrich(req.Context(), lead, body.Sources, body.ForceRefresh); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (e *env) handleScoreLead(w http.ResponseWriter, req *http.Request) {
	lead := e.registry.Get(chi.URLParam(req, "leadID"))
	if lead == nil {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}

	s, err := e.engine.Score(req.Context(), lead)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	e.controller.ApplyScore(lead, s)
	writeJSON(w, http.StatusOK, lead)
}

type processRequest struct {
	Async        bool     `json:"async"`
	SkipEnrich   bool     `json:"skip_enrich"`
	SkipScore    bool     `json:"skip_score"`
	Sources      []string `json:"sources"`
	ForceRefresh bool     `json:"force_refresh"`
}

func (r processRequest) options() lifecycle.ProcessOptions {
	return lifecycle.ProcessOptions{
		Enrich:       !r.SkipEnrich,
		Score:        !r.SkipScore,
		Sources:      r.Sources,
		ForceRefresh: r.ForceRefresh,
	}
}

func (e *env) handleProcessLead(w http.ResponseWriter, req *http.Request) {
	leadID := chi.URLParam(req, "leadID")
	if e.registry.Get(leadID) == nil {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}

	var body processRequest
	decodeOptionalBody(req, &body)

	if body.Async {
		// The request context dies with the response; the pipeline gets its own.
		go func() {
			if _, err := e.controller.ProcessComplete(context.Background(), leadID, body.options()); err != nil {
				zap.L().Error("async processing failed",
					zap.String("lead_id", leadID),
					zap.Error(err),
				)
			}
		}()
		writeJSON(w, http.StatusAccepted, map[string]string{
			"status":  "accepted",
			"lead_id": leadID,
		})
		return
	}

	lead, err := e.controller.ProcessComplete(req.Context(), leadID, body.options())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

type processBatchRequest struct {
	processRequest
	LeadIDs   []string `json:"lead_ids"`
	BatchSize int      `json:"batch_size"`
}

func (e *env) handleProcessBatch(w http.ResponseWriter, req *http.Request) {
	var body processBatchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(body.LeadIDs) == 0 {
		writeError(w, http.StatusBadRequest, "lead_ids is required")
		return
	}

	batchSize := body.BatchSize
	if batchSize <= 0 {
		batchSize = cfg.Batch.Size
	}

	leads, err := e.controller.ProcessBatchComplete(req.Context(), body.LeadIDs, batchSize, body.options())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// normalizeUpdates converts JSON-decoded update values to the types the
// registry expects: string slices for tags, timestamps for follow-up fields.
func normalizeUpdates(updates map[string]any) (registry.FieldUpdates, error) {
	out := make(registry.FieldUpdates, len(updates))
	for key, value := range updates {
		switch key {
		case "tags":
			items, ok := value.([]any)
			if !ok {
				return nil, &model.ValidationError{Field: key, Msg: "wrong type for field"}
			}
			tags := make([]string, 0, len(items))
			for _, item := range items {
				s, ok := item.(string)
				if !ok {
					return nil, &model.ValidationError{Field: key, Msg: "wrong type for field"}
				}
				tags = append(tags, s)
			}
			out[key] = tags
		case "next_follow_up", "last_contacted":
			s, ok := value.(string)
			if !ok {
				return nil, &model.ValidationError{Field: key, Msg: "wrong type for field"}
			}
			ts, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return nil, &model.ValidationError{Field: key, Msg: "timestamp must be RFC 3339"}
			}
			out[key] = ts
		default:
			out[key] = value
		}
	}
	return out, nil
}

// decodeOptionalBody decodes a JSON body when present, leaving v zero-valued
// on an empty body.
func decodeOptionalBody(req *http.Request, v any) {
	if req.Body == nil {
		return
	}
	_ = json.NewDecoder(req.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the SDK error vocabulary to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var valErr *model.ValidationError
	var rlErr *model.RateLimitError
	var confErr *model.ConfigurationError

	switch {
	case errors.As(err, &valErr):
		writeError(w, http.StatusBadRequest, valErr.Error())
	case errors.As(err, &rlErr):
		if rlErr.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(rlErr.RetryAfter.Seconds())))
		}
		writeError(w, http.StatusTooManyRequests, rlErr.Error())
	case errors.As(err, &confErr):
		writeError(w, http.StatusServiceUnavailable, confErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
