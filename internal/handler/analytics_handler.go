package handler

import (
	"net/http"
	"time"

	"bms/internal/service"
	"bms/pkg/response"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	now              func() time.Time
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, now: time.Now}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/analytics/summary", h.Summary)
}

// Summary returns sales totals, entity counts and top products for a period
// @Summary      Analytics summary
// @Description  Defaults to the current month up to now. A date-only "to" includes the whole day.
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "From (RFC3339 or YYYY-MM-DD)"
// @Param        to    query     string  false  "To (RFC3339 or YYYY-MM-DD)"
// @Success      200   {object}  response.Response{data=model.AnalyticsSummary}
// @Failure      400   {object}  response.Response
// @Router       /api/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}

	now := h.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if from != nil {
		start = *from
	}
	end := now
	if to != nil {
		end = *to
		if len(c.Query("to")) == len(time.DateOnly) {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
	}

	summary, err := h.analyticsService.Summary(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
