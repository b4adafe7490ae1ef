package handlers

import (
	"encoding/json"
	"net/http"

	"todolists/domain/contracts"
	"todolists/logging"
)

// DatabaseHealth reports connection pool statistics.
type DatabaseHealth interface {
	Health() (map[string]interface{}, error)
}

// ActivityCounter reports how many todo events have been handled, by kind.
type ActivityCounter interface {
	Counts() map[string]int64
}

// SystemHandlers serves operational endpoints.
type SystemHandlers struct {
	db       DatabaseHealth
	sessions contracts.SessionStatsReader
	activity ActivityCounter
	logger   *logging.Logger
}

// NewSystemHandlers creates system handlers. db is nil when sessions live in memory.
func NewSystemHandlers(db DatabaseHealth, sessions contracts.SessionStatsReader, activity ActivityCounter) *SystemHandlers {
	return &SystemHandlers{
		db:       db,
		sessions: sessions,
		activity: activity,
		logger:   logging.Default().WithComponent("system_handler"),
	}
}

// Health reports database, session store and activity statistics as JSON.
func (h *SystemHandlers) Health(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status": "ok",
	}

	if h.db != nil {
		stats, err := h.db.Health()
		if err != nil {
			h.logger.WithContext(r.Context()).Error("Database health check failed", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		response["database"] = stats
	}

	if h.sessions != nil {
		stats, err := h.sessions.Stats(r.Context())
		if err != nil {
			h.logger.WithContext(r.Context()).Error("Session stats failed", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		response["sessions"] = stats
	}

	if h.activity != nil {
		response["activity"] = h.activity.Counts()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
