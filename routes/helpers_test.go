package routes

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"servicehub-server/services"
	"servicehub-server/utils"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		code int
	}{
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrNotAuthorized, http.StatusForbidden},
		{services.ErrInvalidState, http.StatusBadRequest},
		{services.ErrInvalidOperation, http.StatusBadRequest},
		{services.ErrConflict, http.StatusConflict},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, tc.err, "request failed")
		assert.Equalf(t, tc.code, w.Code, "error %v", tc.err)
	}
}

func TestRespondErrorLogsInternalFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.ErrorLevel)
	prev := utils.Logger
	utils.Logger = zap.New(core)
	defer func() { utils.Logger = prev }()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, errors.New("connection reset by peer"), "Failed to fetch bookings")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "internal error", entry.Message)
	assert.Contains(t, entry.ContextMap()["error"], "connection reset")

	// The underlying error never leaks to the client.
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestRespondErrorBusinessFailuresNotLogged(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.ErrorLevel)
	prev := utils.Logger
	utils.Logger = zap.New(core)
	defer func() { utils.Logger = prev }()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, services.ErrNotFound, "Booking not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, logs.Len())
}
