package httptransport

import (
	"net/http"

	"euromillones/internal/transport/httputil"
)

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"api":     "Euromillones Results API",
		"version": "1.0",
		"endpoints": map[string]string{
			"get_result":         "/results/{date}  (YYYY-MM-DD)",
			"add_result":         "/results (POST JSON)",
			"add_user":           "/user  (POST JSON)",
			"get_user":           "/user/{email} (GET)",
			"update_user":        "/user/{email} (PUT)",
			"delete_user":        "/user/{email} (DELETE)",
			"add_combination":    "/combinations (POST JSON)",
			"get_combinations":   "/combinations/{email} (GET)",
			"update_combination": "/combinations/{id} (PUT)",
			"delete_combination": "/combinations/{id} (DELETE)",
			"health":             "/health",
			"metrics":            "/metrics",
		},
		"description": "This API allows you to query Euromillones results, manage users and their combinations.",
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.Health(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusInternalServerError, map[string]string{
				"status":  "ERROR",
				"message": "API is down or database is unreachable",
				"error":   err.Error(),
			})
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "API is live and database is reachable",
	})
}
