package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopbridge/backend/internal/interfaces/http/dto"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestBaseHandlerSuccess(t *testing.T) {
	c, w := newTestContext()
	h := &BaseHandler{}

	h.Success(c, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandlerBadRequest(t *testing.T) {
	c, w := newTestContext()
	h := &BaseHandler{}

	h.BadRequest(c, "bad input")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	assert.Equal(t, "bad input", resp.Error.Message)
}

func TestBaseHandlerErrorWithCode(t *testing.T) {
	c, w := newTestContext()
	h := &BaseHandler{}

	h.ErrorWithCode(c, dto.ErrCodePlatformUnavailable, "upstream down")

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestBaseHandlerErrorCarriesRequestID(t *testing.T) {
	c, w := newTestContext()
	c.Set(RequestIDKey, "req-42")
	h := &BaseHandler{}

	h.Internal(c, "boom")

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-42", resp.Error.RequestID)
}
