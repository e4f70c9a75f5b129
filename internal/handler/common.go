package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"bms/internal/repository"
	"bms/pkg/apperror"
	"bms/pkg/pagination"
	"bms/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// respondError writes the envelope for err. Internal errors are attached to the
// context for the request logger and answered with a generic message.
func respondError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, response.Error(status, apperror.Message(err)))
}

// bindJSON binds the body into req and answers 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+bindingMessage(err)))
		return false
	}
	return true
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fe.Field()+" failed "+fe.Tag()+"="+fe.Param())
		} else {
			parts = append(parts, fe.Field()+" failed "+fe.Tag())
		}
	}
	return strings.Join(parts, "; ")
}

func listQuery(c *gin.Context) repository.ListQuery {
	return repository.ListQuery{
		Params: pagination.Parse(c),
		Search: strings.TrimSpace(c.Query("search")),
	}
}

// queryUUID reads an optional uuid query parameter; a malformed value answers 400.
func queryUUID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid "+key))
		return nil, false
	}
	return &id, true
}

// queryTime reads an optional RFC3339 or YYYY-MM-DD query parameter.
func queryTime(c *gin.Context, key string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return &t, true
	}
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid "+key+" format, expected RFC3339 or YYYY-MM-DD"))
	return nil, false
}
