package api

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/lzjever/prodcat/internal/audit"
	"github.com/lzjever/prodcat/internal/core"
)

const maxLogDays = 365

// ListSystemLogs returns audit events from the last ?days days (default
// window when absent), newest first. Events the database sink missed are
// not visible here.
func (a *API) ListSystemLogs(w http.ResponseWriter, r *http.Request) {
	window := a.cfg.LogWindow
	if window <= 0 {
		window = audit.DefaultWindow
	}
	if s := r.URL.Query().Get("days"); s != "" {
		days, err := strconv.Atoi(s)
		if err != nil || days < 1 || days > maxLogDays {
			WriteError(w, core.NewAppError(core.ErrBadRequest, "days must be between 1 and 365"))
			return
		}
		window = time.Duration(days) * 24 * time.Hour
	}

	events, err := a.logs.Since(r.Context(), window)
	if err != nil {
		a.reqLog(r).Error("list system logs failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to fetch logs"))
		return
	}
	if events == nil {
		events = []core.AuditEvent{}
	}
	WriteJSON(w, http.StatusOK, events)
}
