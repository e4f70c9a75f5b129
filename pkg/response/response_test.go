package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestEnvelope(t *testing.T) {
	ok := Success(http.StatusCreated, map[string]int{"n": 1})
	assert.Equal(t, StatusSuccess, ok.Status)
	assert.Equal(t, http.StatusCreated, ok.StatusCode)
	assert.Empty(t, ok.Error)

	bad := Error(http.StatusNotFound, "missing")
	assert.Equal(t, StatusError, bad.Status)
	assert.Nil(t, bad.Data)
}

func TestAbort(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	reached := false
	r.GET("/x", func(c *gin.Context) { Abort(c, http.StatusForbidden, "nope") }, func(c *gin.Context) { reached = true })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"status":"error","status_code":403,"error":"nope"}`, rec.Body.String())
	assert.False(t, reached)
}
