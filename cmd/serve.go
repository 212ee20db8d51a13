package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neerchitra/neerchitra-cli/internal/catalog"
	"github.com/neerchitra/neerchitra-cli/internal/engine"
	"github.com/neerchitra/neerchitra-cli/internal/model"
	"github.com/neerchitra/neerchitra-cli/internal/store"
	"github.com/neerchitra/neerchitra-cli/internal/weather"
)

const apiVersion = "1.0.0"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ranked queue over a read-only HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		addr := cfg.Serve.Addr
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			addr = v
		}

		src, cleanup, err := buildServeSource(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		api := &apiServer{
			source:        src,
			weather:       weather.NewHTTPClient(cfg.Weather),
			defaultPreset: cfg.Scoring.Preset,
			defaultCity:   cfg.Weather.City,
		}

		srv := &http.Server{
			Addr:    addr,
			Handler: api.router(cfg.Serve.CORSOrigins),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server",
			zap.String("addr", addr),
			zap.String("catalog_source", src.Name()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// buildServeSource resolves the catalog source once at startup; request
// handlers reload records from it per request.
func buildServeSource(ctx context.Context) (catalog.Source, func(), error) {
	cleanup := func() {}

	var st store.Store
	if cfg.Catalog.Source == catalog.SourceStore {
		s, err := openStore(ctx)
		if err != nil {
			return nil, cleanup, err
		}
		st = s
		cleanup = func() { _ = s.Close() }
	}

	src, err := catalog.ForConfig(cfg.Catalog, st)
	if err != nil {
		return nil, cleanup, err
	}
	return src, cleanup, nil
}

// apiServer carries the collaborators the HTTP handlers need. Handlers
// recompute from the source on every request; the engine is pure, so
// concurrent requests need no coordination.
type apiServer struct {
	source        catalog.Source
	weather       weather.Client
	defaultPreset string
	defaultCity   string
}

func (s *apiServer) router(corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/lakes", s.handleLakes)
		r.Get("/rankings", s.handleRankings)
		r.Get("/summary", s.handleSummary)
		r.Get("/weather", s.handleWeather)
	})
	return r
}

func (s *apiServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": apiVersion})
}

func (s *apiServer) handleLakes(w http.ResponseWriter, r *http.Request) {
	records, err := s.source.Load(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"source": s.source.Name(),
		"lakes":  records,
	})
}

func (s *apiServer) handleRankings(w http.ResponseWriter, r *http.Request) {
	ranked, _, _, err := s.rank(r)
	if err != nil {
		writeError(w, rankStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rankings": ranked})
}

func (s *apiServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	ranked, records, presetName, err := s.rank(r)
	if err != nil {
		writeError(w, rankStatus(err), err)
		return
	}
	summary, err := engine.Summarize(records, ranked, presetName)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *apiServer) handleWeather(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		city = s.defaultCity
	}
	obs, err := s.weather.Current(r.Context(), city)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, obs)
}

// rank loads the catalog and ranks it under the request's preset.
func (s *apiServer) rank(r *http.Request) (ranked []model.ScoredLake, records []model.LakeRecord, presetName string, err error) {
	presetName = r.URL.Query().Get("preset")
	if presetName == "" {
		presetName = s.defaultPreset
	}

	preset, err := engine.LookupPreset(presetName)
	if err != nil {
		return nil, nil, presetName, err
	}

	records, err = s.source.Load(r.Context())
	if err != nil {
		return nil, nil, presetName, err
	}

	ranked, err = engine.Rank(records, preset)
	if err != nil {
		return nil, nil, presetName, err
	}
	return ranked, records, presetName, nil
}

// rankStatus maps configuration errors to 400s; anything else is a 500.
func rankStatus(err error) int {
	if eris.Is(err, engine.ErrConfiguration) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
