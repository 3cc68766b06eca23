package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/lingo/pkg/catalog"
	"github.com/jingkaihe/lingo/pkg/config"
	"github.com/jingkaihe/lingo/pkg/logger"
	"github.com/jingkaihe/lingo/pkg/presenter"
)

// ServeConfig holds configuration for the serve command.
type ServeConfig struct {
	Host string
	Port int
}

// NewServeConfig creates a ServeConfig with default values.
func NewServeConfig() *ServeConfig {
	return &ServeConfig{Host: "localhost", Port: 8765}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the translation catalogs over a read-only HTTP API",
	Long: `Start a local HTTP server exposing the catalog directory for review:
the known locales, each locale's catalog and the keys still pending
translation. The server never writes to the catalogs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromViper()
		if err != nil {
			return err
		}
		scfg := getServeConfigFromFlags(cmd)
		return runServe(cmd.Context(), cfg, scfg)
	},
}

func init() {
	defaults := NewServeConfig()
	serveCmd.Flags().String("host", defaults.Host, "Host to bind the server to")
	serveCmd.Flags().Int("port", defaults.Port, "Port to bind the server to")
}

func getServeConfigFromFlags(cmd *cobra.Command) *ServeConfig {
	cfg := NewServeConfig()
	if host, err := cmd.Flags().GetString("host"); err == nil {
		cfg.Host = host
	}
	if port, err := cmd.Flags().GetInt("port"); err == nil {
		cfg.Port = port
	}
	return cfg
}

func runServe(ctx context.Context, cfg *config.Config, scfg *ServeConfig) error {
	store := catalog.NewStore(cfg.CatalogDir, cfg.BaseLocale, cfg.Locales)

	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}).Methods(http.MethodGet)
	router.HandleFunc("/api/locales", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"baseLocale": store.BaseLocale(),
			"locales":    store.Locales(),
		})
	}).Methods(http.MethodGet)
	router.HandleFunc("/api/catalogs/{locale}", func(w http.ResponseWriter, r *http.Request) {
		locale := mux.Vars(r)["locale"]
		known := false
		for _, loc := range store.Locales() {
			if loc == locale {
				known = true
				break
			}
		}
		if !known {
			http.Error(w, "unknown locale", http.StatusNotFound)
			return
		}
		// reload per request so reviewers always see the current files
		catalogs, err := store.Load()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, catalogs[locale])
	}).Methods(http.MethodGet)

	addr := fmt.Sprintf("%s:%d", scfg.Host, scfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	presenter.Info(fmt.Sprintf("Serving catalogs on http://%s", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.G(ctx).WithError(err).Warn("server shutdown failed")
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server failed")
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
