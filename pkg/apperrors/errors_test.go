package apperrors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleErrorWritesFlatBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	res := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(res)
	c.Request = httptest.NewRequest(http.MethodPost, "/video-upload", nil)

	HandleError(c, UploadError(errors.New("dial tcp: refused"), "Upload video failed"))

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	// Only the client-facing message appears; the cause stays in logs.
	assert.JSONEq(t, `{"error": "Upload video failed"}`, res.Body.String())
}

func TestHandleErrorWrapsUnknownErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	res := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(res)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleError(c, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.JSONEq(t, `{"error": "Internal server error"}`, res.Body.String())
}

func TestAsAppError(t *testing.T) {
	appErr, ok := AsAppError(ConfigError("Cloudinary credentials not found"))
	require.True(t, ok)
	assert.Equal(t, CodeConfigMissing, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}
