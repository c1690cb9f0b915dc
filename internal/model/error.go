package model

// Standard error codes surfaced to the presentation layer.
const (
	ErrCodeValidation        = "VALIDATION_FAILED"
	ErrCodeUnknownTable      = "UNKNOWN_TABLE"
	ErrCodeMalformedFile     = "MALFORMED_FILE"
	ErrCodeInconsistentTotal = "INCONSISTENT_TOTAL"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a typed business-rule failure distinct from storage errors.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidCustomer   = NewDomainError(ErrCodeValidation, "Customer must have a name and well-formed contact details")
	ErrInvalidProduct    = NewDomainError(ErrCodeValidation, "Product must have a name and non-negative price and stock")
	ErrInvalidOrder      = NewDomainError(ErrCodeValidation, "Order must reference a customer and contain at least one item")
	ErrInvalidQuantity   = NewDomainError(ErrCodeValidation, "Quantity must be greater than zero")
	ErrUnknownTable      = NewDomainError(ErrCodeUnknownTable, "Table is not part of the schema")
	ErrMalformedFile     = NewDomainError(ErrCodeMalformedFile, "File is missing a header or has mismatched records")
	ErrInconsistentTotal = NewDomainError(ErrCodeInconsistentTotal, "Stored order total does not match the sum of its items")
)
