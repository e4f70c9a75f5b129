package handler

import (
	"net/http"

	"bms/internal/middleware"
	"bms/internal/repository"
	"bms/internal/service"
	"bms/pkg/response"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employeeService service.EmployeeService
}

func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	employees := router.Group("/employees")
	{
		employees.GET("", h.ListEmployees)
		employees.GET("/:id", h.GetEmployee)
		employees.POST("", h.CreateEmployee)
		employees.PUT("/:id", h.UpdateEmployee)
		employees.DELETE("/:id", h.DeleteEmployee)
	}
}

// ListEmployees returns a page of employees
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        page           query     int     false  "Page number"
// @Param        page_size      query     int     false  "Items per page"
// @Param        search         query     string  false  "Name, code or contact contains"
// @Param        department_id  query     string  false  "Department filter"
// @Param        outlet_id      query     string  false  "Outlet filter"
// @Success      200            {object}  response.Response{data=pagination.Page[model.Employee]}
// @Router       /api/employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	departmentID, ok := queryUUID(c, "department_id")
	if !ok {
		return
	}
	outletID, ok := queryUUID(c, "outlet_id")
	if !ok {
		return
	}

	page, err := h.employeeService.ListEmployees(c.Request.Context(), repository.EmployeeQuery{
		ListQuery:    listQuery(c),
		DepartmentID: departmentID,
		OutletID:     outletID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, page))
}

// @Summary      Get employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=model.Employee}
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employee, err := h.employeeService.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// @Summary      Create employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.EmployeeRequest  true  "Employee"
// @Success      201      {object}  response.Response{data=model.Employee}
// @Failure      409      {object}  response.Response
// @Router       /api/employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req service.EmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, employee))
}

// @Summary      Update employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "Employee ID"
// @Param        payload  body      service.EmployeeRequest  true  "Employee"
// @Success      200      {object}  response.Response{data=model.Employee}
// @Router       /api/employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req service.EmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	employee, err := h.employeeService.UpdateEmployee(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// @Summary      Delete employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response
// @Router       /api/employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.employeeService.DeleteEmployee(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Employee deleted successfully"))
}
