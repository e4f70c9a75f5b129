package handler

import (
	"net/http"

	"bms/internal/middleware"
	"bms/internal/repository"
	"bms/internal/service"
	"bms/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type DualPricingHandler struct {
	pricingService service.DualPricingService
}

func NewDualPricingHandler(pricingService service.DualPricingService) *DualPricingHandler {
	return &DualPricingHandler{pricingService: pricingService}
}

func (h *DualPricingHandler) RegisterRoutes(router *gin.RouterGroup) {
	prices := router.Group("/dual-pricing")
	{
		prices.GET("", h.ListPrices)
		prices.GET("/margin", h.Margin)
		prices.GET("/:id", h.GetPrice)
		prices.POST("", h.CreatePrice)
		prices.PUT("/:id", h.UpdatePrice)
		prices.DELETE("/:id", h.DeletePrice)
	}
}

// ListPrices returns a page of retail / wholesale price pairs with margins
// @Summary      List dual pricing
// @Tags         dual-pricing
// @Produce      json
// @Security     BearerAuth
// @Param        page        query     int     false  "Page number"
// @Param        page_size   query     int     false  "Items per page"
// @Param        search      query     string  false  "Product name contains"
// @Param        product_id  query     string  false  "Product filter"
// @Param        outlet_id   query     string  false  "Outlet filter"
// @Success      200         {object}  response.Response{data=pagination.Page[service.DualPricingResponse]}
// @Router       /api/dual-pricing [get]
func (h *DualPricingHandler) ListPrices(c *gin.Context) {
	productID, ok := queryUUID(c, "product_id")
	if !ok {
		return
	}
	outletID, ok := queryUUID(c, "outlet_id")
	if !ok {
		return
	}

	page, err := h.pricingService.ListPrices(c.Request.Context(), repository.DualPricingQuery{
		ListQuery: listQuery(c),
		ProductID: productID,
		OutletID:  outletID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, page))
}

// Margin computes the margin percentage of a price pair
// @Summary      Margin calculator
// @Description  round(((retail - wholesale) / retail) * 1000) / 10; 0 when retail is 0
// @Tags         dual-pricing
// @Produce      json
// @Security     BearerAuth
// @Param        retail     query     string  true  "Retail price"
// @Param        wholesale  query     string  true  "Wholesale price"
// @Success      200        {object}  response.Response{data=service.MarginResponse}
// @Failure      400        {object}  response.Response
// @Router       /api/dual-pricing/margin [get]
func (h *DualPricingHandler) Margin(c *gin.Context) {
	retail, err := decimal.NewFromString(c.Query("retail"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "retail must be a number"))
		return
	}
	wholesale, err := decimal.NewFromString(c.Query("wholesale"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "wholesale must be a number"))
		return
	}

	res, err := h.pricingService.Margin(retail, wholesale)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// @Summary      Get dual pricing
// @Tags         dual-pricing
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Dual pricing ID"
// @Success      200  {object}  response.Response{data=service.DualPricingResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/dual-pricing/{id} [get]
func (h *DualPricingHandler) GetPrice(c *gin.Context) {
	price, err := h.pricingService.GetPrice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, price))
}

// @Summary      Create dual pricing
// @Description  One record per product and outlet; a duplicate answers 409
// @Tags         dual-pricing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.DualPricingRequest  true  "Prices"
// @Success      201      {object}  response.Response{data=service.DualPricingResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/dual-pricing [post]
func (h *DualPricingHandler) CreatePrice(c *gin.Context) {
	var req service.DualPricingRequest
	if !bindJSON(c, &req) {
		return
	}
	price, err := h.pricingService.CreatePrice(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, price))
}

// @Summary      Update dual pricing
// @Tags         dual-pricing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Dual pricing ID"
// @Param        payload  body      service.DualPricingRequest  true  "Prices"
// @Success      200      {object}  response.Response{data=service.DualPricingResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/dual-pricing/{id} [put]
func (h *DualPricingHandler) UpdatePrice(c *gin.Context) {
	var req service.DualPricingRequest
	if !bindJSON(c, &req) {
		return
	}
	price, err := h.pricingService.UpdatePrice(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, price))
}

// @Summary      Delete dual pricing
// @Tags         dual-pricing
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Dual pricing ID"
// @Success      200  {object}  response.Response
// @Router       /api/dual-pricing/{id} [delete]
func (h *DualPricingHandler) DeletePrice(c *gin.Context) {
	if err := h.pricingService.DeletePrice(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Dual pricing deleted successfully"))
}
