package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratewatch/internal/logger"
	"ratewatch/internal/models"
	"ratewatch/internal/store"
)

func init() {
	logger.InitLogger()
}

func newTestAPI() (*AlertsAPI, *store.Memory) {
	st := store.NewMemory()
	return NewAlertsAPI(st), st
}

func createAlertViaAPI(t *testing.T, api *AlertsAPI, body string) models.Alert {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/alerts", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data models.Alert `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

func TestCreateAlert(t *testing.T) {
	api, st := newTestAPI()

	alert := createAlertViaAPI(t, api,
		`{"from_symbol":"USD","to_symbol":"EUR","target_rate":0.9,"condition":"BELOW"}`)

	assert.NotEmpty(t, alert.ID)
	assert.Equal(t, "usd", alert.FromSymbol, "symbols are normalized at the storage boundary")
	assert.Equal(t, "eur", alert.ToSymbol)
	assert.Equal(t, models.ConditionBelow, alert.Condition)
	assert.True(t, alert.IsActive)
	assert.False(t, alert.Triggered)

	stored, err := st.Get(context.Background(), alert.ID)
	require.NoError(t, err)
	assert.Equal(t, alert.ID, stored.ID)
}

func TestCreateAlertValidation(t *testing.T) {
	api, _ := newTestAPI()

	cases := map[string]string{
		"missing symbols": `{"target_rate":1,"condition":"above"}`,
		"unknown symbol":  `{"from_symbol":"zzz","to_symbol":"eur","target_rate":1,"condition":"above"}`,
		"zero target":     `{"from_symbol":"usd","to_symbol":"eur","target_rate":0,"condition":"above"}`,
		"negative target": `{"from_symbol":"usd","to_symbol":"eur","target_rate":-1,"condition":"above"}`,
		"bad condition":   `{"from_symbol":"usd","to_symbol":"eur","target_rate":1,"condition":"sideways"}`,
		"negative max":    `{"from_symbol":"usd","to_symbol":"eur","target_rate":1,"condition":"above","max_notifications":-1}`,
		"malformed body":  `{`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/alerts", bytes.NewBufferString(body))
			rec := httptest.NewRecorder()
			api.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestListAlerts(t *testing.T) {
	api, _ := newTestAPI()
	createAlertViaAPI(t, api,
		`{"from_symbol":"usd","to_symbol":"eur","target_rate":0.9,"condition":"below"}`)

	req := httptest.NewRequest(http.MethodGet, "/alerts", nil)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []models.Alert `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
}

func TestUpdateAlertUserFields(t *testing.T) {
	api, st := newTestAPI()
	alert := createAlertViaAPI(t, api,
		`{"from_symbol":"usd","to_symbol":"eur","target_rate":0.9,"condition":"below"}`)

	body := `{"target_rate":0.85,"is_active":false,"condition":"above"}`
	req := httptest.NewRequest(http.MethodPatch, "/alerts/"+alert.ID, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := st.Get(context.Background(), alert.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.85, stored.TargetRate)
	assert.False(t, stored.IsActive)
	assert.Equal(t, models.ConditionAbove, stored.Condition)
}

func TestDeleteAlert(t *testing.T) {
	api, st := newTestAPI()
	alert := createAlertViaAPI(t, api,
		`{"from_symbol":"usd","to_symbol":"eur","target_rate":0.9,"condition":"below"}`)

	req := httptest.NewRequest(http.MethodDelete, "/alerts/"+alert.ID, nil)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := st.Get(context.Background(), alert.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetMissingAlert(t *testing.T) {
	api, _ := newTestAPI()

	req := httptest.NewRequest(http.MethodGet, "/alerts/nope", nil)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	api, _ := newTestAPI()

	req := httptest.NewRequest(http.MethodDelete, "/alerts", nil)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
