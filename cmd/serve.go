package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/groundsignal/leadradar/internal/model"
	"github.com/groundsignal/leadradar/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP trigger server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		trigger := func(runCtx context.Context, sources []model.DataSource) {
			result, err := env.Pipeline.ProcessSources(runCtx, sources)
			if err != nil {
				zap.L().Error("serve: triggered run failed", zap.Error(err))
				return
			}
			if _, err := env.Store.SaveRun(runCtx, result.Metrics); err != nil {
				zap.L().Warn("serve: save run report", zap.Error(err))
			}
			zap.L().Info("serve: triggered run complete",
				zap.Int("total_leads", result.TotalLeads))
		}

		router := newRouter(env.Store, func(sourcesPath string) error {
			sources, err := loadSources(sourcesPath)
			if err != nil {
				return err
			}
			go trigger(ctx, sources)
			return nil
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("serve: shutting down")
			srv.Shutdown(context.Background())
		}()

		zap.L().Info("serve: listening", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

// newRouter builds the HTTP surface: health, run trigger, stored leads
// and runs.
func newRouter(st store.Store, triggerRun func(sourcesPath string) error) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/run", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			SourcesPath string `json:"sources_path"`
		}
		// an empty body means "use the configured sources file"
		_ = json.NewDecoder(req.Body).Decode(&body)

		if err := triggerRun(body.SourcesPath); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	})

	r.Get("/leads", func(w http.ResponseWriter, req *http.Request) {
		limit := queryInt(req, "limit", 50)
		leads, err := st.ListLeads(req.Context(), limit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, leads)
	})

	r.Get("/runs", func(w http.ResponseWriter, req *http.Request) {
		limit := queryInt(req, "limit", 20)
		runs, err := st.ListRuns(req.Context(), limit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, runs)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func queryInt(req *http.Request, name string, fallback int) int {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (defaults to server.port)")
	rootCmd.AddCommand(serveCmd)
}
