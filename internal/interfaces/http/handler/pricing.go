package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	apppricing "github.com/retailcore/engine/internal/application/pricing"
	"github.com/retailcore/engine/internal/interfaces/http/dto"
)

// PricingHandler handles pricing and allocation API endpoints
type PricingHandler struct {
	BaseHandler
	service *apppricing.Service
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(service *apppricing.Service) *PricingHandler {
	return &PricingHandler{
		service: service,
	}
}

// RegisterRoutes registers pricing routes
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	pricing := rg.Group("/pricing")
	{
		pricing.POST("/quote", h.Quote)
		pricing.POST("/allocate", h.Allocate)
		pricing.POST("/allocate-amount", h.AllocateAmount)
		pricing.POST("/availability", h.Availability)
	}
	units := rg.Group("/units")
	{
		units.GET("/:unit", h.UnitInfo)
	}
}

// Quote godoc
// @ID           quoteProduct
// @Summary      Quote a product
// @Description  Computes effective retail and wholesale prices, total stock and near-expiry batches
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /pricing/quote [post]
func (h *PricingHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	quote := h.service.QuoteProduct(req.Product.ToDomain())
	h.Success(c, dto.NewQuoteResponse(quote))
}

// Allocate godoc
// @ID           allocateByQuantity
// @Summary      Allocate a quantity across batches
// @Description  Walks batches in consumption order and prices the requested quantity
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /pricing/allocate [post]
func (h *PricingHandler) Allocate(c *gin.Context) {
	var req dto.AllocateByQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	if req.Quantity < 0 {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidationRange, "Quantity must be non-negative")
		return
	}

	summary, err := h.service.AllocateByQuantity(
		req.Product.ToDomain(),
		decimal.NewFromFloat(req.Quantity),
		req.Unit,
		dto.SaleModeOrDefault(req.SaleMode),
		req.SelectedBatchID,
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewAllocationResponse(summary))
}

// AllocateAmount godoc
// @ID           allocateByAmount
// @Summary      Convert a money amount into a purchasable quantity
// @Description  Walks batches in consumption order and returns how much the amount buys
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /pricing/allocate-amount [post]
func (h *PricingHandler) AllocateAmount(c *gin.Context) {
	var req dto.AllocateByAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	if req.Amount < 0 {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidationRange, "Amount must be non-negative")
		return
	}

	quantity, err := h.service.AllocateByAmount(
		req.Product.ToDomain(),
		decimal.NewFromFloat(req.Amount),
		req.Unit,
		dto.SaleModeOrDefault(req.SaleMode),
		req.SelectedBatchID,
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.AmountAllocationResponse{
		Quantity: quantity.Float64(),
		Unit:     quantity.Unit(),
	})
}

// Availability godoc
// @ID           checkAvailability
// @Summary      Check stock availability
// @Description  Validates a requested quantity against total stock across batches
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /pricing/availability [post]
func (h *PricingHandler) Availability(c *gin.Context) {
	var req dto.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.service.CheckAvailability(req.Product.ToDomain(), decimal.NewFromFloat(req.Quantity), req.Unit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.AvailabilityResponse{
		Available:    result.Available,
		StockDisplay: result.StockDisplay,
	})
}

// UnitInfo godoc
// @ID           getUnitInfo
// @Summary      Describe a unit of measurement
// @Description  Returns the category, base unit and display units for a unit
// @Tags         units
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /units/{unit} [get]
func (h *PricingHandler) UnitInfo(c *gin.Context) {
	h.Success(c, dto.NewUnitInfoResponse(c.Param("unit")))
}
