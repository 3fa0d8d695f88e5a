package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/KHILANO5/Campusfound/pkg/apperr"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusOf(apperr.KindValidation))
	assert.Equal(t, http.StatusNotFound, StatusOf(apperr.KindNotFound))
	assert.Equal(t, http.StatusConflict, StatusOf(apperr.KindConflict))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(apperr.KindAuth))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(apperr.KindStorage))
	assert.Equal(t, http.StatusInternalServerError, StatusOf("bogus"))
}

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", apperr.Validation("title", "title is required"), 400,
			`{"code":"validation_error","message":"title is required","field":"title"}`},
		{"not found", apperr.NotFound("post not found"), 404, `{"code":"not_found","message":"post not found"}`},
		{"conflict", apperr.Conflict("post is already resolved"), 409, `{"code":"conflict","message":"post is already resolved"}`},
		{"auth", apperr.Auth("invalid email or password"), 401, `{"code":"unauthorized","message":"invalid email or password"}`},
		{"storage", apperr.Storage("list posts", errors.New("pq: relation does not exist")), 500,
			`{"code":"storage_error","message":"internal server error"}`},
		{"unclassified", errors.New("disk full"), 500, `{"code":"storage_error","message":"internal server error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Error(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}
