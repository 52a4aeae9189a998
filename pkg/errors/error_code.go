package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter        ErrorCode = 100
	ErrCodeInvalidConfiguration    ErrorCode = 101
	ErrCodeInvalidType             ErrorCode = 102
	ErrCodeInvalidPeriod           ErrorCode = 103
	ErrCodeMissingParameter        ErrorCode = 104
	ErrCodeInvalidStdDevMultiplier ErrorCode = 105

	// Series errors (200-299)
	ErrCodeEmptySeries       ErrorCode = 200
	ErrCodeNonMonotonicDates ErrorCode = 201
	ErrCodeNegativeVolume    ErrorCode = 202

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302
	ErrCodeDuplicateColumn        ErrorCode = 303

	// Market data errors (400-499)
	ErrCodeProviderUnavailable   ErrorCode = 400
	ErrCodeFetchFailed           ErrorCode = 401
	ErrCodeNoDataFound           ErrorCode = 402
	ErrCodeMalformedProviderData ErrorCode = 403
	ErrCodeStoreFailed           ErrorCode = 404

	// Export errors (500-599)
	ErrCodeExportFailed ErrorCode = 500
)
