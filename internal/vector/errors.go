package vector

import "github.com/rkorrapolu/sye-agent/internal/types"

// Vector store error codes
const (
	ErrCodeStoreUnavailable types.ErrorCode = "VECTOR_STORE_UNAVAILABLE"
	ErrCodeStoreFailed      types.ErrorCode = "VECTOR_STORE_FAILED"
	ErrCodeSearchFailed     types.ErrorCode = "VECTOR_SEARCH_FAILED"
	ErrCodeRecordNotFound   types.ErrorCode = "VECTOR_RECORD_NOT_FOUND"
	ErrCodeInvalidConfig    types.ErrorCode = "VECTOR_INVALID_CONFIG"
)
