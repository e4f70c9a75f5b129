package handler

import (
	"net/http"

	"bms/internal/middleware"
	"bms/internal/repository"
	"bms/internal/service"
	"bms/pkg/response"

	"github.com/gin-gonic/gin"
)

type AttendanceHandler struct {
	attendanceService service.AttendanceService
}

func NewAttendanceHandler(attendanceService service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

func (h *AttendanceHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/attendance")
	{
		group.GET("", h.ListAttendance)
		group.POST("/clock-in", h.ClockIn)
		group.POST("/clock-out", h.ClockOut)
	}
}

// ClockIn opens a shift for an employee
// @Summary      Clock in
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ClockRequest  true  "Employee"
// @Success      201      {object}  response.Response{data=model.Attendance}
// @Failure      409      {object}  response.Response  "Already clocked in"
// @Router       /api/attendance/clock-in [post]
func (h *AttendanceHandler) ClockIn(c *gin.Context) {
	var req service.ClockRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := h.attendanceService.ClockIn(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, record))
}

// ClockOut closes the employee's open shift
// @Summary      Clock out
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ClockRequest  true  "Employee"
// @Success      200      {object}  response.Response{data=model.Attendance}
// @Failure      409      {object}  response.Response  "Not clocked in"
// @Router       /api/attendance/clock-out [post]
func (h *AttendanceHandler) ClockOut(c *gin.Context) {
	var req service.ClockRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := h.attendanceService.ClockOut(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// ListAttendance returns a page of shifts
// @Summary      List attendance
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        page         query     int     false  "Page number"
// @Param        page_size    query     int     false  "Items per page"
// @Param        employee_id  query     string  false  "Employee filter"
// @Param        from         query     string  false  "Clock-in from"
// @Param        to           query     string  false  "Clock-in to"
// @Success      200          {object}  response.Response{data=pagination.Page[model.Attendance]}
// @Router       /api/attendance [get]
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	employeeID, ok := queryUUID(c, "employee_id")
	if !ok {
		return
	}
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}

	page, err := h.attendanceService.ListAttendance(c.Request.Context(), repository.AttendanceQuery{
		ListQuery:  listQuery(c),
		EmployeeID: employeeID,
		From:       from,
		To:         to,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, page))
}
