package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"ratewatch/internal/logger"
	"ratewatch/internal/ratesource"
)

// RateResolver supplies the current rate for a pair. Satisfied by
// resolver.Resolver.
type RateResolver interface {
	Resolve(ctx context.Context, from, to string) (float64, error)
}

type ConvertResponse struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
	Rate   float64 `json:"rate"`
	Result float64 `json:"result"`
}

// ConvertHandler answers one-shot conversions at /convert?from=&to=&amount=.
// It shares the rate cache with the evaluator, so a conversion right after a
// tick costs no upstream call.
type ConvertHandler struct {
	resolver RateResolver
}

// NewConvertHandler builds the handler over the shared resolver.
func NewConvertHandler(resolver RateResolver) *ConvertHandler {
	return &ConvertHandler{resolver: resolver}
}

func (h *ConvertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "convert")
	defer span.End()

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		http.Error(w, "Missing required parameters: from, to", http.StatusBadRequest)
		return
	}

	amount := 1.0
	if raw := r.URL.Query().Get("amount"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "amount must be a positive number", http.StatusBadRequest)
			return
		}
		amount = parsed
	}

	rate, err := h.resolver.Resolve(ctx, from, to)
	if err != nil {
		if errors.Is(err, ratesource.ErrUnknownSymbol) {
			http.Error(w, "Unknown symbol", http.StatusBadRequest)
			return
		}
		logger.Log.Warn("conversion failed",
			zap.String("from", from),
			zap.String("to", to),
			zap.Error(err),
		)
		http.Error(w, "Rate currently unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Message: "Conversion successful",
		Data: ConvertResponse{
			From:   from,
			To:     to,
			Amount: amount,
			Rate:   rate,
			Result: amount * rate,
		},
	})
}
