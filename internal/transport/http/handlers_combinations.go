package httptransport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"euromillones/internal/transport/httputil"
	"euromillones/internal/validation"
)

const (
	msgInvalidBalls = "Invalid balls: must be exactly 5 unique integers between 1-50"
	msgInvalidStars = "Invalid stars: must be exactly 2 unique integers between 1-12"
)

// combinationIDParam validates the id path parameter against the identifier
// policy before it is ever parsed.
func (h *Handler) combinationIDParam(r *http.Request) (int, bool) {
	raw := h.sanitizer.Param("id", chi.URLParam(r, "id"))
	if params, ok := validation.ParamsFrom(r.Context()); ok {
		raw = params["id"]
	}
	if !validation.ValidCombinationID(raw) {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

// playedSet extracts and checks the balls and stars fields of a payload.
func playedSet(payload map[string]any) (balls, stars []int, errMessage, errField string) {
	balls = intSlice(payload, "balls")
	if !validation.ValidBalls(balls) {
		return nil, nil, msgInvalidBalls, "balls"
	}
	stars = intSlice(payload, "stars")
	if !validation.ValidStars(stars) {
		return nil, nil, msgInvalidStars, "stars"
	}
	return balls, stars, "", ""
}

func (h *Handler) handleCreateCombination(w http.ResponseWriter, r *http.Request) {
	payload, _ := validation.PayloadFrom(r.Context())

	email := h.sanitizer.Email(stringField(payload, "email"))
	if validation.IsSuspicious(email) || !validation.ValidEmail(email) {
		writeRejection(w, "Invalid email format", "email")
		return
	}
	balls, stars, msg, field := playedSet(payload)
	if msg != "" {
		writeRejection(w, msg, field)
		return
	}

	id, err := h.combinations.Add(r.Context(), email, balls, stars)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":        "Combination successfully added",
		"email":          email,
		"balls":          balls,
		"stars":          stars,
		"combination_id": id,
	})
}

func (h *Handler) handleListCombinations(w http.ResponseWriter, r *http.Request) {
	email, ok := h.emailParam(r, "email")
	if !ok {
		writeRejection(w, "Invalid email format", "email")
		return
	}

	list, err := h.combinations.ListForUser(r.Context(), email)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(list))
	for _, c := range list {
		items = append(items, map[string]any{
			"id":    c.ID,
			"balls": c.Balls,
			"stars": c.Stars,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"email":        email,
		"combinations": items,
	})
}

func (h *Handler) handleUpdateCombination(w http.ResponseWriter, r *http.Request) {
	id, ok := h.combinationIDParam(r)
	if !ok {
		writeRejection(w, "Invalid combination ID", "id")
		return
	}

	payload, _ := validation.PayloadFrom(r.Context())
	balls, stars, msg, field := playedSet(payload)
	if msg != "" {
		writeRejection(w, msg, field)
		return
	}

	if err := h.combinations.Change(r.Context(), id, balls, stars); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Combination updated",
		"id":      id,
		"balls":   balls,
		"stars":   stars,
	})
}

func (h *Handler) handleDeleteCombination(w http.ResponseWriter, r *http.Request) {
	id, ok := h.combinationIDParam(r)
	if !ok {
		writeRejection(w, "Invalid combination ID", "id")
		return
	}

	if err := h.combinations.Remove(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Combination deleted",
		"id":      id,
	})
}
