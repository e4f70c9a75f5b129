package handler

import (
	"net/http"

	"bms/internal/middleware"
	"bms/internal/service"
	"bms/pkg/response"

	"github.com/gin-gonic/gin"
)

type OutletHandler struct {
	outletService service.OutletService
}

func NewOutletHandler(outletService service.OutletService) *OutletHandler {
	return &OutletHandler{outletService: outletService}
}

func (h *OutletHandler) RegisterRoutes(router *gin.RouterGroup) {
	outlets := router.Group("/outlets")
	{
		outlets.GET("", h.ListOutlets)
		outlets.GET("/:id", h.GetOutlet)
		outlets.POST("", h.CreateOutlet)
		outlets.PUT("/:id", h.UpdateOutlet)
		outlets.DELETE("/:id", h.DeleteOutlet)
	}
}

// ListOutlets returns a page of outlets with their managers
// @Summary      List outlets
// @Tags         outlets
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Items per page"
// @Param        search     query     string  false  "Name or contact contains"
// @Success      200        {object}  response.Response{data=pagination.Page[model.Outlet]}
// @Router       /api/outlets [get]
func (h *OutletHandler) ListOutlets(c *gin.Context) {
	page, err := h.outletService.ListOutlets(c.Request.Context(), listQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, page))
}

// @Summary      Get outlet
// @Tags         outlets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Outlet ID"
// @Success      200  {object}  response.Response{data=model.Outlet}
// @Failure      404  {object}  response.Response
// @Router       /api/outlets/{id} [get]
func (h *OutletHandler) GetOutlet(c *gin.Context) {
	outlet, err := h.outletService.GetOutlet(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, outlet))
}

// @Summary      Create outlet
// @Tags         outlets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.OutletRequest  true  "Outlet"
// @Success      201      {object}  response.Response{data=model.Outlet}
// @Failure      400      {object}  response.Response
// @Router       /api/outlets [post]
func (h *OutletHandler) CreateOutlet(c *gin.Context) {
	var req service.OutletRequest
	if !bindJSON(c, &req) {
		return
	}
	outlet, err := h.outletService.CreateOutlet(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, outlet))
}

// @Summary      Update outlet
// @Tags         outlets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                 true  "Outlet ID"
// @Param        payload  body      service.OutletRequest  true  "Outlet"
// @Success      200      {object}  response.Response{data=model.Outlet}
// @Router       /api/outlets/{id} [put]
func (h *OutletHandler) UpdateOutlet(c *gin.Context) {
	var req service.OutletRequest
	if !bindJSON(c, &req) {
		return
	}
	outlet, err := h.outletService.UpdateOutlet(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, outlet))
}

// @Summary      Delete outlet
// @Tags         outlets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Outlet ID"
// @Success      200  {object}  response.Response
// @Router       /api/outlets/{id} [delete]
func (h *OutletHandler) DeleteOutlet(c *gin.Context) {
	if err := h.outletService.DeleteOutlet(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Outlet deleted successfully"))
}
