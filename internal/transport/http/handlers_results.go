package httptransport

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"euromillones/internal/transport/httputil"
	"euromillones/internal/validation"
)

func (h *Handler) handleGetResult(w http.ResponseWriter, r *http.Request) {
	params, _ := validation.ParamsFrom(r.Context())

	date, err := validation.ParseDrawDate(params["date"])
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrDateFormat):
			writeRejection(w, "Invalid date format (use YYYY-MM-DD)", "date")
		case errors.Is(err, validation.ErrDateFuture):
			writeRejection(w, "Date cannot be in the future", "date")
		default:
			writeRejection(w, "Invalid date (day or month does not exist)", "date")
		}
		return
	}

	result, err := h.results.ByDate(r.Context(), date.Format("2006-01-02"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var jackpot any
	if len(result.Jackpot) > 0 {
		jackpot = result.Jackpot
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"date":    result.Date,
		"balls":   result.Balls,
		"stars":   result.Stars,
		"jackpot": jackpot,
	})
}

// recordResultRequest is the write-side contract for draw results.
type recordResultRequest struct {
	Date    string          `json:"date" validate:"required,datetime=2006-01-02"`
	Balls   []int           `json:"balls" validate:"required,len=5,unique,dive,min=1,max=50"`
	Stars   []int           `json:"stars" validate:"required,len=2,unique,dive,min=1,max=12"`
	Jackpot json.RawMessage `json:"jackpot"`
}

func (h *Handler) handleRecordResult(w http.ResponseWriter, r *http.Request) {
	payload, _ := validation.PayloadFrom(r.Context())

	var req recordResultRequest
	if err := bindPayload(payload, &req); err != nil {
		writeRejection(w, "Invalid draw result payload", "payload")
		return
	}

	date, err := validation.ParseDrawDate(req.Date)
	if err != nil {
		writeRejection(w, "Invalid draw date", "date")
		return
	}
	if !validation.ValidDrawDay(date) {
		writeRejection(w, "Date is not a draw day (Tuesday or Friday)", "date")
		return
	}

	if err := h.results.Record(r.Context(), req.Date, req.Balls, req.Stars, req.Jackpot); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Result recorded",
		"date":    req.Date,
	})
}
