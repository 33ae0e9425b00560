package semcache

import "github.com/rkorrapolu/sye-agent/internal/types"

// Semantic cache error codes
const (
	ErrCodeCacheCheckFailed types.ErrorCode = "CACHE_CHECK_FAILED"
	ErrCodeCacheStoreFailed types.ErrorCode = "CACHE_STORE_FAILED"
	ErrCodeCacheClearFailed types.ErrorCode = "CACHE_CLEAR_FAILED"
	ErrCodeInvalidConfig    types.ErrorCode = "CACHE_INVALID_CONFIG"
)
