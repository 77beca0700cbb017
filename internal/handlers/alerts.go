// Package handlers serves the alert CRUD API and the conversion endpoint.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"ratewatch/internal/assets"
	"ratewatch/internal/logger"
	"ratewatch/internal/models"
	"ratewatch/internal/store"
)

const tracerName = "ratewatch"

type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type CreateAlertRequest struct {
	FromSymbol       string  `json:"from_symbol"`
	ToSymbol         string  `json:"to_symbol"`
	TargetRate       float64 `json:"target_rate"`
	Condition        string  `json:"condition"`
	MaxNotifications int     `json:"max_notifications,omitempty"`
}

type UpdateAlertRequest struct {
	TargetRate       *float64 `json:"target_rate,omitempty"`
	Condition        *string  `json:"condition,omitempty"`
	IsActive         *bool    `json:"is_active,omitempty"`
	MaxNotifications *int     `json:"max_notifications,omitempty"`
}

// AlertsAPI exposes alert CRUD over the store. User actions own creation,
// deletion and the target/condition/active fields; trigger state belongs to
// the evaluator and is read-only here.
type AlertsAPI struct {
	store store.AlertStore
}

// NewAlertsAPI builds the API over the given store.
func NewAlertsAPI(st store.AlertStore) *AlertsAPI {
	return &AlertsAPI{store: st}
}

// ServeHTTP routes /alerts and /alerts/{id} by method.
func (a *AlertsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/alerts")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			a.listAlerts(w, r)
		case http.MethodPost:
			a.createAlert(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	alertID := path
	switch r.Method {
	case http.MethodGet:
		a.getAlert(w, r, alertID)
	case http.MethodPut, http.MethodPatch:
		a.updateAlert(w, r, alertID)
	case http.MethodDelete:
		a.deleteAlert(w, r, alertID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (a *AlertsAPI) listAlerts(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "listAlerts")
	defer span.End()

	alerts, err := a.store.List(ctx)
	if err != nil {
		logger.Log.Error("failed to list alerts", zap.Error(err))
		http.Error(w, "Failed to fetch alerts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "Alerts retrieved successfully", Data: alerts})
}

func (a *AlertsAPI) createAlert(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "createAlert")
	defer span.End()

	var req CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	from := assets.Normalize(req.FromSymbol)
	to := assets.Normalize(req.ToSymbol)
	condition := models.Condition(strings.ToLower(req.Condition))

	switch {
	case from == "" || to == "":
		http.Error(w, "Missing required fields: from_symbol, to_symbol", http.StatusBadRequest)
		return
	case assets.Classify(from) == assets.Unknown:
		http.Error(w, "Unknown from_symbol", http.StatusBadRequest)
		return
	case assets.Classify(to) == assets.Unknown:
		http.Error(w, "Unknown to_symbol", http.StatusBadRequest)
		return
	case req.TargetRate <= 0:
		http.Error(w, "target_rate must be positive", http.StatusBadRequest)
		return
	case !condition.Valid():
		http.Error(w, "condition must be \"above\" or \"below\"", http.StatusBadRequest)
		return
	case req.MaxNotifications < 0:
		http.Error(w, "max_notifications must not be negative", http.StatusBadRequest)
		return
	}

	now := time.Now()
	alert := &models.Alert{
		ID:               uuid.New().String(),
		FromSymbol:       from,
		ToSymbol:         to,
		TargetRate:       req.TargetRate,
		Condition:        condition,
		IsActive:         true,
		MaxNotifications: req.MaxNotifications,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := a.store.Create(ctx, alert); err != nil {
		logger.Log.Error("failed to create alert", zap.String("alert_id", alert.ID), zap.Error(err))
		http.Error(w, "Failed to create alert", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, Response{Message: "Alert created successfully", Data: alert})
}

func (a *AlertsAPI) getAlert(w http.ResponseWriter, r *http.Request, alertID string) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "getAlert")
	defer span.End()

	alert, err := a.store.Get(ctx, alertID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Alert not found", http.StatusNotFound)
			return
		}
		logger.Log.Error("failed to fetch alert", zap.String("alert_id", alertID), zap.Error(err))
		http.Error(w, "Failed to fetch alert", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "Alert retrieved successfully", Data: alert})
}

func (a *AlertsAPI) updateAlert(w http.ResponseWriter, r *http.Request, alertID string) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "updateAlert")
	defer span.End()

	existing, err := a.store.Get(ctx, alertID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Alert not found", http.StatusNotFound)
			return
		}
		logger.Log.Error("failed to fetch alert for update", zap.String("alert_id", alertID), zap.Error(err))
		http.Error(w, "Failed to fetch alert", http.StatusInternalServerError)
		return
	}

	var req UpdateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.TargetRate != nil {
		if *req.TargetRate <= 0 {
			http.Error(w, "target_rate must be positive", http.StatusBadRequest)
			return
		}
		existing.TargetRate = *req.TargetRate
	}
	if req.Condition != nil {
		condition := models.Condition(strings.ToLower(*req.Condition))
		if !condition.Valid() {
			http.Error(w, "condition must be \"above\" or \"below\"", http.StatusBadRequest)
			return
		}
		existing.Condition = condition
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	if req.MaxNotifications != nil {
		if *req.MaxNotifications < 0 {
			http.Error(w, "max_notifications must not be negative", http.StatusBadRequest)
			return
		}
		existing.MaxNotifications = *req.MaxNotifications
	}

	existing.UpdatedAt = time.Now()

	if err := a.store.Update(ctx, existing); err != nil {
		logger.Log.Error("failed to update alert", zap.String("alert_id", alertID), zap.Error(err))
		http.Error(w, "Failed to update alert", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "Alert updated successfully", Data: existing})
}

func (a *AlertsAPI) deleteAlert(w http.ResponseWriter, r *http.Request, alertID string) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "deleteAlert")
	defer span.End()

	if err := a.store.Delete(ctx, alertID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Alert not found", http.StatusNotFound)
			return
		}
		logger.Log.Error("failed to delete alert", zap.String("alert_id", alertID), zap.Error(err))
		http.Error(w, "Failed to delete alert", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "Alert deleted successfully"})
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Log.Error("failed to encode JSON response", zap.Error(err))
	}
}
