package api

import (
	"net/http"
	"time"

	"github.com/lzjever/prodcat/internal/core"
)

// HealthHandler returns 200 if service is healthy.
func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// ReadyHandler returns 200 if service is ready to accept requests.
func (a *API) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	// Check DB connectivity
	ctx := r.Context()
	if err := a.db.Ping(ctx); err != nil {
		WriteError(w, core.NewAppError(core.ErrStorageUnavailable, "db unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// DebugEnv reports deployment facts without exposing any secret values.
func (a *API) DebugEnv(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"env": map[string]interface{}{
			"APP_ENV":   a.cfg.Env,
			"HAS_REDIS": a.cfg.RedisURL != "",
		},
		"timestamp": a.now().UTC().Format(time.RFC3339Nano),
	})
}
