package pricing

import (
	"sort"

	"github.com/retailcore/engine/internal/domain/shared/strategy"
)

// OrderingStrategyType defines the type of batch consumption ordering
type OrderingStrategyType string

const (
	// OrderingStrategyTypeFIFO consumes oldest batches first (by creation date)
	OrderingStrategyTypeFIFO OrderingStrategyType = "FIFO"
	// OrderingStrategyTypeFEFO consumes batches closest to expiry first
	OrderingStrategyTypeFEFO OrderingStrategyType = "FEFO"
)

// IsValid checks if the ordering strategy type is valid
func (t OrderingStrategyType) IsValid() bool {
	switch t {
	case OrderingStrategyTypeFIFO, OrderingStrategyTypeFEFO:
		return true
	}
	return false
}

// String returns the string representation
func (t OrderingStrategyType) String() string {
	return string(t)
}

// OrderingStrategy produces a deterministic batch consumption order.
// Implementations never mutate the input slice.
type OrderingStrategy interface {
	strategy.Strategy
	// OrderingType returns the ordering strategy type
	OrderingType() OrderingStrategyType
	// Order returns the batches in consumption order
	Order(batches []Batch) []Batch
}

// FIFOOrderingStrategy orders batches oldest-created first.
// A batch with a zero creation date sorts first.
type FIFOOrderingStrategy struct {
	strategy.BaseStrategy
}

// NewFIFOOrderingStrategy creates a new FIFO ordering strategy
func NewFIFOOrderingStrategy() *FIFOOrderingStrategy {
	return &FIFOOrderingStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"fifo_batch_ordering",
			strategy.StrategyTypeOrdering,
			"FIFO batch ordering - consumes oldest batches first by creation date",
		),
	}
}

// OrderingType returns the ordering strategy type
func (s *FIFOOrderingStrategy) OrderingType() OrderingStrategyType {
	return OrderingStrategyTypeFIFO
}

// Order returns the batches sorted by ascending creation date
func (s *FIFOOrderingStrategy) Order(batches []Batch) []Batch {
	sorted := make([]Batch, len(batches))
	copy(sorted, batches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// FEFOOrderingStrategy orders batches earliest-expiry first. Batches without
// an expiry date sort last; ties break by ascending creation date, with a
// zero creation date first among ties.
type FEFOOrderingStrategy struct {
	strategy.BaseStrategy
}

// NewFEFOOrderingStrategy creates a new FEFO ordering strategy
func NewFEFOOrderingStrategy() *FEFOOrderingStrategy {
	return &FEFOOrderingStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"fefo_batch_ordering",
			strategy.StrategyTypeOrdering,
			"FEFO batch ordering - consumes batches closest to expiry first",
		),
	}
}

// OrderingType returns the ordering strategy type
func (s *FEFOOrderingStrategy) OrderingType() OrderingStrategyType {
	return OrderingStrategyTypeFEFO
}

// Order returns the batches sorted by ascending expiry date
func (s *FEFOOrderingStrategy) Order(batches []Batch) []Batch {
	sorted := make([]Batch, len(batches))
	copy(sorted, batches)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ExpiryDate != nil && sorted[j].ExpiryDate != nil {
			if !sorted[i].ExpiryDate.Equal(*sorted[j].ExpiryDate) {
				return sorted[i].ExpiryDate.Before(*sorted[j].ExpiryDate)
			}
		} else if sorted[i].ExpiryDate != nil {
			return true // i has expiry, j doesn't - use expiring stock first
		} else if sorted[j].ExpiryDate != nil {
			return false
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// OrderBatches returns the batches in consumption order: FEFO when the
// product tracks expiry, FIFO otherwise. The same order drives both display
// pricing and allocation.
func OrderBatches(batches []Batch, trackExpiry bool) []Batch {
	return orderingFor(trackExpiry).Order(batches)
}

func orderingFor(trackExpiry bool) OrderingStrategy {
	if trackExpiry {
		return NewFEFOOrderingStrategy()
	}
	return NewFIFOOrderingStrategy()
}
