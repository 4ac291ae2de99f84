package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/pipeline"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/report"
	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the audit HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		api := newAuditAPI(ctx, env.Store, env.Engine)
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(api, cfg.Server.CORSOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		shutdownDone := make(chan struct{})
		go func() {
			defer close(shutdownDone)
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("server starting", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			stop()
			<-shutdownDone
			return eris.Wrap(err, "server error")
		}

		// Handlers have returned once Shutdown does, so no audit starts after
		// this point. In-flight audits see the cancelled context and are
		// recorded as failed.
		<-shutdownDone
		api.Wait()
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (defaults to server.port)")
	rootCmd.AddCommand(serveCmd)
}

// auditExecutor runs one audit against an existing run record.
type auditExecutor interface {
	Execute(ctx context.Context, runID, url string) *pipeline.Result
}

// auditAPI serves the audit endpoints. Audits run in the background on the
// server's base context.
type auditAPI struct {
	ctx      context.Context
	store    store.Store
	exec     auditExecutor
	validate *validator.Validate
	wg       sync.WaitGroup
}

func newAuditAPI(ctx context.Context, st store.Store, exec auditExecutor) *auditAPI {
	return &auditAPI{
		ctx:      ctx,
		store:    st,
		exec:     exec,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Wait blocks until every background audit has finished.
func (a *auditAPI) Wait() { a.wg.Wait() }

type auditRequest struct {
	URL string `json:"url" validate:"required,url,startswith=http"`
}

type auditAccepted struct {
	RunID  string          `json:"run_id"`
	Status model.RunStatus `json:"status"`
}

// buildRouter wires the API routes behind CORS and panic recovery.
func buildRouter(a *auditAPI, origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1/audits", func(r chi.Router) {
		r.Post("/", a.createAudit)
		r.Get("/", a.listAudits)
		r.Get("/{id}", a.getAudit)
		r.Get("/{id}/report", a.getReport)
	})

	return r
}

func (a *auditAPI) createAudit(w http.ResponseWriter, r *http.Request) {
	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "url must be an http(s) URL")
		return
	}

	if a.ctx.Err() != nil {
		writeError(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	}

	run, err := a.store.CreateRun(r.Context(), req.URL)
	if err != nil {
		zap.L().Error("create run failed", zap.String("url", req.URL), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not create run")
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		res := a.exec.Execute(a.ctx, run.ID, req.URL)
		zap.L().Info("background audit finished",
			zap.String("run_id", run.ID),
			zap.String("url", req.URL),
			zap.Int("errors", len(res.State.Errors)),
		)
	}()

	writeJSON(w, http.StatusAccepted, auditAccepted{RunID: run.ID, Status: run.Status})
}

func (a *auditAPI) getAudit(w http.ResponseWriter, r *http.Request) {
	run, ok := a.lookupRun(w, r)
	if !ok {
		return
	}
	phases, err := a.store.ListPhases(r.Context(), run.ID)
	if err != nil {
		zap.L().Error("list phases failed", zap.String("run_id", run.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load phases")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		*model.Run
		Phases []model.RunPhase `json:"phases"`
	}{run, phases})
}

func (a *auditAPI) getReport(w http.ResponseWriter, r *http.Request) {
	run, ok := a.lookupRun(w, r)
	if !ok {
		return
	}
	if run.Result == nil {
		writeError(w, http.StatusConflict, "audit has not finished")
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="audit-%s.md"`, run.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report.Markdown(run.Result.State)))
}

func (a *auditAPI) listAudits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.RunFilter{
		Status: model.RunStatus(q.Get("status")),
		URL:    q.Get("url"),
	}
	if err := a.validate.Var(string(filter.Status), "omitempty,oneof=queued running complete failed"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}

	runs, err := a.store.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("list runs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list runs")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (a *auditAPI) lookupRun(w http.ResponseWriter, r *http.Request) (*model.Run, bool) {
	id := chi.URLParam(r, "id")
	run, err := a.store.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return nil, false
	}
	if err != nil {
		zap.L().Error("get run failed", zap.String("run_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load run")
		return nil, false
	}
	return run, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
