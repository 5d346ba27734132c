package dto

import (
	"time"

	"github.com/google/uuid"
	apppricing "github.com/retailcore/engine/internal/application/pricing"
	"github.com/retailcore/engine/internal/domain/pricing"
	"github.com/retailcore/engine/internal/domain/shared"
	"github.com/retailcore/engine/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// ===================== Request Types =====================

// ProductPayload is a product snapshot as the POS clients send it. The
// upstream catalog data is loosely typed: prices arrive as numbers or
// strings, track_expiry as a bool or "true", and absent fields mean "fall
// through to the next price source". Coercion happens here, once, so the
// domain only ever sees typed values.
type ProductPayload struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Unit             string         `json:"unit" binding:"required"`
	Price            any            `json:"price"`
	UnitPrice        any            `json:"unit_price"`
	SellingPrice     any            `json:"selling_price"`
	SellingUnitPrice any            `json:"selling_unit_price"`
	WholesalePrice   any            `json:"wholesale_price"`
	CostPrice        any            `json:"cost_price"`
	WholesaleMOQ     any            `json:"wholesale_moq"`
	TrackExpiry      any            `json:"track_expiry"`
	Quantity         any            `json:"quantity"`
	Stock            any            `json:"stock"`
	Batches          []BatchPayload `json:"batches"`
}

// BatchPayload is one purchase batch as sent by clients
type BatchPayload struct {
	ID               string `json:"id"`
	BatchNumber      string `json:"batch_number"`
	Quantity         any    `json:"quantity"`
	ExpiryDate       string `json:"expiry_date"`
	CreatedAt        string `json:"created_at"`
	CostPrice        any    `json:"cost_price"`
	SellingPrice     any    `json:"selling_price"`
	SellingUnitPrice any    `json:"selling_unit_price"`
	WholesalePrice   any    `json:"wholesale_price"`
}

// QuoteRequest asks for the display quote of one product
// @Description Request body for computing a product quote
type QuoteRequest struct {
	Product ProductPayload `json:"product" binding:"required"`
}

// AllocateByQuantityRequest asks what a quantity-driven sale costs
// @Description Request body for quantity-driven allocation
type AllocateByQuantityRequest struct {
	Product         ProductPayload `json:"product" binding:"required"`
	Quantity        float64        `json:"quantity"`
	Unit            string         `json:"unit" binding:"required"`
	SaleMode        string         `json:"sale_mode" binding:"omitempty,oneof=retail wholesale"`
	SelectedBatchID string         `json:"selected_batch_id"`
}

// AllocateByAmountRequest asks how much quantity an amount buys
// @Description Request body for amount-driven allocation
type AllocateByAmountRequest struct {
	Product         ProductPayload `json:"product" binding:"required"`
	Amount          float64        `json:"amount"`
	Unit            string         `json:"unit" binding:"required"`
	SaleMode        string         `json:"sale_mode" binding:"omitempty,oneof=retail wholesale"`
	SelectedBatchID string         `json:"selected_batch_id"`
}

// AvailabilityRequest validates a requested quantity against stock
// @Description Request body for stock availability checks
type AvailabilityRequest struct {
	Product  ProductPayload `json:"product" binding:"required"`
	Quantity float64        `json:"quantity"`
	Unit     string         `json:"unit" binding:"required"`
}

// SaleModeOrDefault returns the requested sale mode, defaulting to retail
func SaleModeOrDefault(mode string) pricing.SaleMode {
	if mode == "" {
		return pricing.SaleModeRetail
	}
	return pricing.SaleMode(mode)
}

// ToDomain converts the payload into a domain product snapshot
func (p ProductPayload) ToDomain() *pricing.Product {
	product := &pricing.Product{
		BaseEntity:       shared.BaseEntity{ID: parseEntityID(p.ID)},
		Name:             p.Name,
		Unit:             valueobject.NormalizeUnit(p.Unit),
		Price:            optionalDecimal(p.Price),
		UnitPrice:        optionalDecimal(p.UnitPrice),
		SellingPrice:     optionalDecimal(p.SellingPrice),
		SellingUnitPrice: optionalDecimal(p.SellingUnitPrice),
		WholesalePrice:   optionalDecimal(p.WholesalePrice),
		CostPrice:        optionalDecimal(p.CostPrice),
		WholesaleMOQ:     optionalDecimal(p.WholesaleMOQ),
		TrackExpiry:      cast.ToBool(p.TrackExpiry),
		Quantity:         optionalDecimal(p.Quantity),
		Stock:            optionalDecimal(p.Stock),
		Batches:          make([]pricing.Batch, 0, len(p.Batches)),
	}
	for _, batch := range p.Batches {
		product.Batches = append(product.Batches, batch.toDomain())
	}
	return product
}

func (b BatchPayload) toDomain() pricing.Batch {
	batchNumber := b.BatchNumber
	if batchNumber == "" {
		// Keep the raw upstream id reachable for explicit batch selection
		// even when it is not a UUID.
		batchNumber = b.ID
	}
	batch := pricing.Batch{
		BaseEntity:       shared.BaseEntity{ID: parseEntityID(b.ID)},
		BatchNumber:      batchNumber,
		Quantity:         coerceDecimal(b.Quantity),
		CostPrice:        optionalDecimal(b.CostPrice),
		SellingPrice:     optionalDecimal(b.SellingPrice),
		SellingUnitPrice: optionalDecimal(b.SellingUnitPrice),
		WholesalePrice:   optionalDecimal(b.WholesalePrice),
	}
	if t, err := parseDateTime(b.CreatedAt); err == nil {
		batch.CreatedAt = t
	}
	if t, err := parseDateTime(b.ExpiryDate); err == nil {
		batch.ExpiryDate = &t
	}
	return batch
}

// parseEntityID accepts upstream ids that are not UUIDs by deriving a
// stable UUID from the raw string, so identical payloads always convert
// identically.
func parseEntityID(raw string) uuid.UUID {
	if raw == "" {
		return uuid.Nil
	}
	if id, err := uuid.Parse(raw); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(raw))
}

// optionalDecimal coerces a loosely-typed numeric field. nil stays nil
// (absent, fall through); anything unparseable or negative coerces to zero.
func optionalDecimal(raw any) *decimal.Decimal {
	if raw == nil {
		return nil
	}
	d := coerceDecimal(raw)
	return &d
}

// coerceDecimal never fails: malformed numerics become zero and negative
// prices are clamped, since price and quantity fields are non-negative by
// contract.
func coerceDecimal(raw any) decimal.Decimal {
	f, err := cast.ToFloat64E(raw)
	if err != nil || f < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// parseDateTime parses a datetime string in the formats upstream data uses
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}

// ===================== Response Types =====================

// QuoteResponse is the display quote for one product
// @Description Product quote with effective prices, stock and allowed units
type QuoteResponse struct {
	RetailPrice     float64                 `json:"retail_price" example:"22.5"`
	WholesalePrice  float64                 `json:"wholesale_price" example:"18.0"`
	Currency        string                  `json:"currency" example:"INR"`
	WholesaleMOQ    float64                 `json:"wholesale_moq" example:"10"`
	TotalStock      float64                 `json:"total_stock" example:"40.5"`
	StockUnit       string                  `json:"stock_unit" example:"kg"`
	DisplayUnits    []string                `json:"display_units" example:"kg,g"`
	DecimalAllowed  bool                    `json:"decimal_allowed" example:"true"`
	ExpiringBatches []ExpiringBatchResponse `json:"expiring_batches"`
}

// ExpiringBatchResponse is one near-expiry batch in a quote
type ExpiringBatchResponse struct {
	BatchID     string  `json:"batch_id"`
	BatchNumber string  `json:"batch_number" example:"LOT-42"`
	Quantity    float64 `json:"quantity" example:"5"`
	ExpiryDate  string  `json:"expiry_date" example:"2026-09-15"`
}

// BatchDrawResponse is one batch's contribution to an allocation
type BatchDrawResponse struct {
	BatchID      string  `json:"batch_id"`
	BatchNumber  string  `json:"batch_number" example:"LOT-42"`
	Quantity     float64 `json:"quantity" example:"5"`
	SellingPrice float64 `json:"selling_price" example:"50"`
	CostPrice    float64 `json:"cost_price" example:"35"`
}

// AllocationResponse is the outcome of a quantity-driven allocation
// @Description Allocation totals and per-batch draws
type AllocationResponse struct {
	TotalSellingPrice   float64             `json:"total_selling_price" example:"250"`
	TotalCostPrice      float64             `json:"total_cost_price" example:"175"`
	AverageSellingPrice float64             `json:"average_selling_price" example:"50"`
	WeightedAverageCost float64             `json:"weighted_average_cost" example:"35"`
	Currency            string              `json:"currency" example:"INR"`
	FullyAllocated      bool                `json:"fully_allocated" example:"true"`
	UsedBatches         []BatchDrawResponse `json:"used_batches"`
}

// AmountAllocationResponse is the outcome of an amount-driven allocation
type AmountAllocationResponse struct {
	Quantity float64 `json:"quantity" example:"2.5"`
	Unit     string  `json:"unit" example:"kg"`
}

// AvailabilityResponse reports stock availability for a request
type AvailabilityResponse struct {
	Available    bool   `json:"available" example:"true"`
	StockDisplay string `json:"stock_display" example:"2000 g"`
}

// UnitInfoResponse describes a unit of measurement
type UnitInfoResponse struct {
	Unit           string   `json:"unit" example:"kg"`
	Category       string   `json:"category" example:"weight"`
	BaseUnit       string   `json:"base_unit" example:"g"`
	DecimalAllowed bool     `json:"decimal_allowed" example:"true"`
	DisplayUnits   []string `json:"display_units" example:"kg,g"`
}

// NewQuoteResponse builds a QuoteResponse from an application quote
func NewQuoteResponse(quote *apppricing.Quote) QuoteResponse {
	expiring := make([]ExpiringBatchResponse, 0, len(quote.ExpiringSoon))
	for _, batch := range quote.ExpiringSoon {
		expiryDate := ""
		if batch.ExpiryDate != nil {
			expiryDate = batch.ExpiryDate.Format("2006-01-02")
		}
		quantity, _ := batch.Quantity.Float64()
		expiring = append(expiring, ExpiringBatchResponse{
			BatchID:     batch.ID.String(),
			BatchNumber: batch.BatchNumber,
			Quantity:    quantity,
			ExpiryDate:  expiryDate,
		})
	}
	moq, _ := quote.WholesaleMOQ.Float64()
	return QuoteResponse{
		RetailPrice:     quote.RetailPrice.Float64(),
		WholesalePrice:  quote.WholesalePrice.Float64(),
		Currency:        string(quote.RetailPrice.Currency()),
		WholesaleMOQ:    moq,
		TotalStock:      quote.TotalStock.Float64(),
		StockUnit:       quote.TotalStock.Unit(),
		DisplayUnits:    quote.DisplayUnits,
		DecimalAllowed:  quote.DecimalAllowed,
		ExpiringBatches: expiring,
	}
}

// NewAllocationResponse builds an AllocationResponse from an application summary
func NewAllocationResponse(summary *apppricing.AllocationSummary) AllocationResponse {
	draws := make([]BatchDrawResponse, 0, len(summary.UsedBatches))
	for _, draw := range summary.UsedBatches {
		quantity, _ := draw.Quantity.Float64()
		sellingPrice, _ := draw.SellingPrice.Float64()
		costPrice, _ := draw.CostPrice.Float64()
		draws = append(draws, BatchDrawResponse{
			BatchID:      draw.BatchID.String(),
			BatchNumber:  draw.BatchNumber,
			Quantity:     quantity,
			SellingPrice: sellingPrice,
			CostPrice:    costPrice,
		})
	}
	average, _ := summary.AverageSellingPrice.Float64()
	weightedCost, _ := summary.WeightedAverageCost.Float64()
	return AllocationResponse{
		TotalSellingPrice:   summary.TotalSellingPrice.Float64(),
		TotalCostPrice:      summary.TotalCostPrice.Float64(),
		AverageSellingPrice: average,
		WeightedAverageCost: weightedCost,
		Currency:            string(summary.TotalSellingPrice.Currency()),
		FullyAllocated:      summary.FullyAllocated,
		UsedBatches:         draws,
	}
}

// NewUnitInfoResponse describes the given unit
func NewUnitInfoResponse(unit string) UnitInfoResponse {
	normalized := valueobject.NormalizeUnit(unit)
	return UnitInfoResponse{
		Unit:           normalized,
		Category:       valueobject.CategoryOf(normalized).String(),
		BaseUnit:       valueobject.BaseUnitFor(normalized),
		DecimalAllowed: valueobject.IsDecimalAllowed(normalized),
		DisplayUnits:   valueobject.AllowedDisplayUnits(normalized),
	}
}
