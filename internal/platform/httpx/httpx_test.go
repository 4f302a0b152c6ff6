package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/itstock/internal/shared"
)

func TestRespondErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
		title  string
	}{
		{fmt.Errorf("item x: %w", shared.ErrNotFound), http.StatusNotFound, "Not Found"},
		{fmt.Errorf("name: %w", shared.ErrValidation), http.StatusBadRequest, "Validation Failed"},
		{shared.ErrInsufficientStock, http.StatusConflict, "Insufficient Stock"},
		{shared.ErrServiceUnavailable, http.StatusServiceUnavailable, "Service Unavailable"},
		{errors.New("boom"), http.StatusInternalServerError, "Internal Error"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, tc.err)
		require.Equal(t, tc.status, rec.Code)
		require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

		var problem ProblemDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
		require.Equal(t, tc.title, problem.Title)
	}

	rec := httptest.NewRecorder()
	RespondError(rec, errors.New("secret dsn"))
	require.NotContains(t, rec.Body.String(), "secret")
}

type sampleRequest struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

func TestBinder(t *testing.T) {
	binder := NewBinder()

	bind := func(body string) (*httptest.ResponseRecorder, sampleRequest, bool) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		rec := httptest.NewRecorder()
		var target sampleRequest
		ok := binder.Bind(rec, req, &target)
		return rec, target, ok
	}

	_, got, ok := bind(`{"name":"Mouse","quantity":2}`)
	require.True(t, ok)
	require.Equal(t, sampleRequest{Name: "Mouse", Quantity: 2}, got)

	rec, _, ok := bind(`{"name":"Mouse","quantity":0}`)
	require.False(t, ok)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Contains(t, problem.Errors, "quantity")

	rec, _, ok = bind(`{"name":"Mouse","quantity":1,"extra":true}`)
	require.False(t, ok)
	require.Contains(t, rec.Body.String(), "Malformed Body")

	_, _, ok = bind(`not json`)
	require.False(t, ok)
}
