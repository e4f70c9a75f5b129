package handler

import (
	"net/http"

	"bms/internal/middleware"
	"bms/internal/repository"
	"bms/internal/service"
	"bms/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SaleHandler struct {
	saleService service.SaleService
}

func NewSaleHandler(saleService service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

func (h *SaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/sales")
	{
		sales.POST("", h.CreateSale)
		sales.GET("", h.ListSales)
		sales.GET("/:id", h.GetSale)
	}
	router.GET("/products/:id/sales", h.ListProductSales)
}

// CreateSale records a point-of-sale transaction
// @Summary      Create sale
// @Description  Prices every line from the outlet's dual pricing (wholesale for wholesale customer types), decrements stock and issues an INV-YYYYMMDD-NNNNN number in one transaction
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateSaleRequest  true  "Sale"
// @Success      201      {object}  response.Response{data=model.Sale}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response  "Insufficient stock"
// @Router       /api/sales [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req service.CreateSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sale))
}

// ListSales returns a page of sales, newest first
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Items per page"
// @Param        search     query     string  false  "Transaction number or customer contains"
// @Param        outlet_id  query     string  false  "Outlet filter"
// @Param        from       query     string  false  "From (RFC3339 or YYYY-MM-DD)"
// @Param        to         query     string  false  "To (RFC3339 or YYYY-MM-DD)"
// @Success      200        {object}  response.Response{data=pagination.Page[model.Sale]}
// @Router       /api/sales [get]
func (h *SaleHandler) ListSales(c *gin.Context) {
	q, ok := h.saleQuery(c)
	if !ok {
		return
	}
	h.list(c, q)
}

// ListProductSales returns the sales that include a product
// @Summary      Sales of a product
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=pagination.Page[model.Sale]}
// @Router       /api/products/{id}/sales [get]
func (h *SaleHandler) ListProductSales(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid product id"))
		return
	}
	q, ok := h.saleQuery(c)
	if !ok {
		return
	}
	q.ProductID = &productID
	h.list(c, q)
}

func (h *SaleHandler) saleQuery(c *gin.Context) (repository.SaleQuery, bool) {
	outletID, ok := queryUUID(c, "outlet_id")
	if !ok {
		return repository.SaleQuery{}, false
	}
	from, ok := queryTime(c, "from")
	if !ok {
		return repository.SaleQuery{}, false
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return repository.SaleQuery{}, false
	}
	return repository.SaleQuery{ListQuery: listQuery(c), OutletID: outletID, From: from, To: to}, true
}

func (h *SaleHandler) list(c *gin.Context, q repository.SaleQuery) {
	page, err := h.saleService.ListSales(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, page))
}

// @Summary      Get sale
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {object}  response.Response{data=model.Sale}
// @Failure      404  {object}  response.Response
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetSale(c *gin.Context) {
	sale, err := h.saleService.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sale))
}
