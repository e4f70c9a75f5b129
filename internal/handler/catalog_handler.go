package handler

import (
	"net/http"

	"bms/internal/middleware"
	"bms/internal/repository"
	"bms/internal/service"
	"bms/pkg/response"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves CRUD for one name + status lookup table
// (departments, product types, customer types).
type CatalogHandler[T any] struct {
	path    string
	service service.CatalogService[T]
}

// NewCatalogHandler mounts service under path, e.g. "/departments".
func NewCatalogHandler[T any](path string, svc service.CatalogService[T]) *CatalogHandler[T] {
	return &CatalogHandler[T]{path: path, service: svc}
}

func (h *CatalogHandler[T]) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group(h.path)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
}

// @Summary      List catalog entries
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Items per page"
// @Param        search     query     string  false  "Name contains"
// @Param        status     query     string  false  "Active or Inactive"
// @Success      200        {object}  response.Response
// @Router       /api/departments [get]
// @Router       /api/product-types [get]
// @Router       /api/customer-types [get]
func (h *CatalogHandler[T]) List(c *gin.Context) {
	q := repository.CatalogQuery{ListQuery: listQuery(c), Status: c.Query("status")}
	page, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, page))
}

// @Summary      Get catalog entry
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                  true  "Entry ID"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/departments/{id} [get]
// @Router       /api/product-types/{id} [get]
// @Router       /api/customer-types/{id} [get]
func (h *CatalogHandler[T]) Get(c *gin.Context) {
	row, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, row))
}

// @Summary      Create catalog entry
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CatalogRequest  true  "Entry"
// @Success      201      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/departments [post]
// @Router       /api/product-types [post]
// @Router       /api/customer-types [post]
func (h *CatalogHandler[T]) Create(c *gin.Context) {
	var req service.CatalogRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, row))
}

// @Summary      Update catalog entry
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                  true  "Entry ID"
// @Param        payload  body      service.CatalogRequest  true  "Entry"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/departments/{id} [put]
// @Router       /api/product-types/{id} [put]
// @Router       /api/customer-types/{id} [put]
func (h *CatalogHandler[T]) Update(c *gin.Context) {
	var req service.CatalogRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.service.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, row))
}

// @Summary      Delete catalog entry
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                  true  "Entry ID"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/departments/{id} [delete]
// @Router       /api/product-types/{id} [delete]
// @Router       /api/customer-types/{id} [delete]
func (h *CatalogHandler[T]) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Deleted successfully"))
}
