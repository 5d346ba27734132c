package pricing

import (
	"github.com/retailcore/engine/internal/domain/pricing"
	"github.com/retailcore/engine/internal/domain/shared"
	"github.com/retailcore/engine/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Quote is everything the POS product page shows for one product: the
// prices to quote right now, the wholesale threshold, current stock and the
// units the transaction may be expressed in.
type Quote struct {
	RetailPrice    valueobject.Money
	WholesalePrice valueobject.Money
	WholesaleMOQ   decimal.Decimal
	TotalStock     valueobject.Quantity
	DisplayUnits   []string
	DecimalAllowed bool
	ExpiringSoon   []pricing.Batch
}

// AllocationSummary wraps a domain allocation result with money totals for
// the transport layer.
type AllocationSummary struct {
	TotalSellingPrice   valueobject.Money
	TotalCostPrice      valueobject.Money
	AverageSellingPrice decimal.Decimal
	WeightedAverageCost decimal.Decimal
	UsedBatches         []pricing.BatchDraw
	FullyAllocated      bool
}

// Service exposes the pricing engine to the transport layer. It validates
// transaction intent, delegates to the domain and logs each computation.
type Service struct {
	engine   *pricing.Engine
	resolver *pricing.PriceResolver
	logger   *zap.Logger
	currency valueobject.Currency
}

// ServiceOption is a functional option for Service configuration
type ServiceOption func(*Service)

// WithCurrency sets the currency attached to money totals
func WithCurrency(currency valueobject.Currency) ServiceOption {
	return func(s *Service) {
		if currency != "" {
			s.currency = currency
		}
	}
}

// NewService creates a new pricing Service
func NewService(engine *pricing.Engine, logger *zap.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		engine:   engine,
		resolver: engine.Resolver(),
		logger:   logger,
		currency: valueobject.DefaultCurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) money(amount decimal.Decimal) valueobject.Money {
	m, err := valueobject.NewMoney(amount, s.currency)
	if err != nil {
		return valueobject.NewMoneyINR(amount)
	}
	return m
}

// QuoteProduct computes the display quote for a product snapshot
func (s *Service) QuoteProduct(product *pricing.Product) *Quote {
	retail := s.resolver.EffectivePrice(product, pricing.SaleModeRetail)
	wholesale := s.resolver.EffectivePrice(product, pricing.SaleModeWholesale)
	stock := pricing.TotalStock(product)

	s.logger.Debug("computed product quote",
		zap.String("product", product.Name),
		zap.String("unit", product.Unit),
		zap.String("retail_price", retail.String()),
		zap.String("wholesale_price", wholesale.String()),
		zap.String("total_stock", stock.String()),
	)

	return &Quote{
		RetailPrice:    s.money(retail),
		WholesalePrice: s.money(wholesale),
		WholesaleMOQ:   s.resolver.EffectiveWholesaleMOQ(product),
		TotalStock:     valueobject.MustNewQuantity(stock, product.Unit),
		DisplayUnits:   valueobject.AllowedDisplayUnits(product.Unit),
		DecimalAllowed: valueobject.IsDecimalAllowed(product.Unit),
		ExpiringSoon:   s.engine.ExpiringSoon(product),
	}
}

// AllocateByQuantity computes the total price and batch draws for a
// quantity-driven sale
func (s *Service) AllocateByQuantity(product *pricing.Product, quantity decimal.Decimal, unit string, mode pricing.SaleMode, selectedBatchID string) (*AllocationSummary, error) {
	if !mode.IsValid() {
		return nil, shared.ErrInvalidSaleMode
	}

	result, err := s.engine.AllocateByQuantity(product, quantity, unit, mode, selectedBatchID)
	if err != nil {
		s.logger.Warn("quantity allocation failed",
			zap.String("product", product.Name),
			zap.String("mode", mode.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug("allocated by quantity",
		zap.String("product", product.Name),
		zap.String("mode", mode.String()),
		zap.String("requested", result.RequestedQuantity.String()),
		zap.Int("batches_used", len(result.UsedBatches)),
		zap.String("total", result.TotalSellingPrice.String()),
		zap.Bool("fully_allocated", result.FullyAllocated),
	)

	return &AllocationSummary{
		TotalSellingPrice:   s.money(result.TotalSellingPrice),
		TotalCostPrice:      s.money(result.TotalCostPrice),
		AverageSellingPrice: result.AverageSellingPrice,
		WeightedAverageCost: result.WeightedAverageCost,
		UsedBatches:         result.UsedBatches,
		FullyAllocated:      result.FullyAllocated,
	}, nil
}

// AllocateByAmount computes how much quantity a monetary amount buys,
// in the requested unit
func (s *Service) AllocateByAmount(product *pricing.Product, amount decimal.Decimal, unit string, mode pricing.SaleMode, selectedBatchID string) (valueobject.Quantity, error) {
	if !mode.IsValid() {
		return valueobject.ZeroQuantity(unit), shared.ErrInvalidSaleMode
	}

	quantity, err := s.engine.AllocateByAmount(product, amount, unit, mode, selectedBatchID)
	if err != nil {
		s.logger.Warn("amount allocation failed",
			zap.String("product", product.Name),
			zap.String("mode", mode.String()),
			zap.Error(err),
		)
		return valueobject.ZeroQuantity(unit), err
	}

	s.logger.Debug("allocated by amount",
		zap.String("product", product.Name),
		zap.String("mode", mode.String()),
		zap.String("amount", amount.String()),
		zap.String("quantity", quantity.String()),
	)

	return valueobject.MustNewQuantity(quantity, unit), nil
}

// CheckAvailability validates a requested quantity against tracked stock
func (s *Service) CheckAvailability(product *pricing.Product, quantity decimal.Decimal, unit string) (*pricing.AvailabilityResult, error) {
	result, err := pricing.CheckAvailability(product, quantity, unit)
	if err != nil {
		return nil, err
	}
	if !result.Available {
		s.logger.Info("requested quantity exceeds tracked stock",
			zap.String("product", product.Name),
			zap.String("requested", quantity.String()),
			zap.String("unit", unit),
			zap.String("stock", result.Stock.String()),
		)
	}
	return result, nil
}
