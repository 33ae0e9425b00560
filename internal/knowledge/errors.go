package knowledge

import "github.com/rkorrapolu/sye-agent/internal/types"

// Knowledge service error codes
const (
	ErrCodeInvalidRequest types.ErrorCode = "KNOWLEDGE_INVALID_REQUEST"
	ErrCodeInvalidPayload types.ErrorCode = "KNOWLEDGE_INVALID_PAYLOAD"
	ErrCodeLookupFailed   types.ErrorCode = "KNOWLEDGE_LOOKUP_FAILED"
	ErrCodeWriteFailed    types.ErrorCode = "KNOWLEDGE_WRITE_FAILED"
	ErrCodeStatsFailed    types.ErrorCode = "KNOWLEDGE_STATS_FAILED"
	ErrCodeWarmupFailed   types.ErrorCode = "KNOWLEDGE_WARMUP_FAILED"
)
