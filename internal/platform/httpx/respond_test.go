package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, StatusOf(Errf(ErrValidation, "bad")))
	require.Equal(t, http.StatusBadRequest, StatusOf(Errf(ErrDuplicate, "dup")))
	require.Equal(t, http.StatusBadRequest, StatusOf(&StockError{Product: "Widget", Available: 2}))
	require.Equal(t, http.StatusNotFound, StatusOf(Errf(ErrNotFound, "missing")))
	require.Equal(t, http.StatusForbidden, StatusOf(Errf(ErrForbidden, "no")))
	require.Equal(t, http.StatusUnauthorized, StatusOf(Errf(ErrUnauthorized, "who")))
	require.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func TestStockErrorMessage(t *testing.T) {
	err := &StockError{Product: "Volt Charger", Available: 3}
	require.EqualError(t, err, "Insufficient stock for Volt Charger. Available: 3")
}

func TestErrorEnvelopeHidesInternalsInProduction(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponder(false).Error(rec, errors.New("pq: connection refused"))

	var body struct {
		Success bool      `json:"success"`
		Error   ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Internal Server Error", body.Error.Message)
	require.Empty(t, body.Error.Stack)
}

func TestErrorEnvelopeCarriesStackInDevelopment(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponder(true).Error(rec, errors.New("pq: connection refused"))

	var body struct {
		Error ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "pq: connection refused", body.Error.Message)
	require.NotEmpty(t, body.Error.Stack)
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, Data{"order": map[string]any{"id": 1}})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"success":true,"data":{"order":{"id":1}}}`, rec.Body.String())
}
