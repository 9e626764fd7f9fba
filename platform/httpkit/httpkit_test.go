package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"creaturedex/platform/apperr"
	"creaturedex/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleErrorMapsKindToStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperr.NotFound("creature not found"), http.StatusNotFound},
		{"conflict", apperr.Conflict("creature already collected"), http.StatusConflict},
		{"wrapped validation", errors.Join(apperr.Validation("bad id")), http.StatusBadRequest},
		{"untyped", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			require.True(t, HandleError(c, tc.err))
			assert.Equal(t, tc.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestHandleErrorNil(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, HandleError(c, nil))
}

func TestRequestIDAssignsAndEchoes(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	var seen string
	engine.GET("/", func(c *gin.Context) {
		seen = c.GetString(ContextRequestIDKey)
		c.Status(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))

	inbound := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, inbound)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, inbound, seen)
}

func TestRateLimitRejectsBeyondBurst(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2, logger.Nop())
	engine := gin.New()
	engine.Use(limiter.RateLimit())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
