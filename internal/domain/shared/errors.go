package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidSaleMode   = NewDomainError("INVALID_SALE_MODE", "Sale mode must be retail or wholesale")
	ErrBatchNotFound     = NewDomainError("BATCH_NOT_FOUND", "Selected batch not found on product")
	ErrFractionalCount   = NewDomainError("FRACTIONAL_COUNT", "Quantity must be a whole number for count-based units")
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)
