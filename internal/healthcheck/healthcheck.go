// Package healthcheck runs a minimal liveness HTTP endpoint alongside a
// long-running command.
package healthcheck

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// NormalizeListen trims the configured listen address and expands a bare
// port like ":8081" unchanged. Empty input disables the server.
func NormalizeListen(listen string) string {
	listen = strings.TrimSpace(listen)
	if listen == "" {
		return ""
	}
	if !strings.Contains(listen, ":") {
		return "127.0.0.1:" + listen
	}
	return listen
}

// StartServer serves GET /healthz on listen until the returned server is
// shut down. The component name is echoed in the payload so multiple
// commands on one host stay distinguishable.
func StartServer(ctx context.Context, logger *slog.Logger, listen, component string) (*http.Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return nil, err
	}

	startedAt := time.Now().UTC()
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"component":  component,
			"started_at": startedAt.Format(time.RFC3339),
		})
	})

	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Warn("health_server_error", "addr", listen, "error", err.Error())
		}
	}()
	logger.Info("health_server_start", "addr", ln.Addr().String(), "component", component)
	return srv, nil
}
