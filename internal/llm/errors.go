package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

// LLM error codes
const (
	ErrProviderNotFound   types.ErrorCode = "LLM_PROVIDER_NOT_FOUND"
	ErrProviderInitFailed types.ErrorCode = "LLM_PROVIDER_INIT_FAILED"
	ErrUnauthorized       types.ErrorCode = "LLM_PROVIDER_UNAUTHORIZED"
	ErrRateLimited        types.ErrorCode = "LLM_PROVIDER_RATE_LIMITED"
	ErrTimeoutExceeded    types.ErrorCode = "LLM_TIMEOUT_EXCEEDED"
	ErrCompletionFailed   types.ErrorCode = "LLM_COMPLETION_FAILED"
	ErrInvalidResponse    types.ErrorCode = "LLM_INVALID_RESPONSE"
	ErrInvalidConfig      types.ErrorCode = "LLM_INVALID_CONFIG"
)

// NewAuthError reports a missing or rejected credential for a provider.
func NewAuthError(provider string, cause error) error {
	msg := fmt.Sprintf("provider %s: missing or invalid API key", provider)
	if cause != nil {
		return types.WrapError(ErrUnauthorized, msg, cause)
	}
	return types.NewError(ErrUnauthorized, msg)
}

// TranslateError maps a vendor SDK error onto the error taxonomy, marking
// transient conditions (rate limits, timeouts, network failures) retryable.
func TranslateError(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return types.NewRetryableError(ErrTimeoutExceeded,
			fmt.Sprintf("provider %s: request deadline exceeded", provider))
	}
	if errors.Is(err, context.Canceled) {
		return types.WrapError(ErrCompletionFailed,
			fmt.Sprintf("provider %s: request canceled", provider), err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota"):
		e := types.NewRetryableError(ErrRateLimited,
			fmt.Sprintf("provider %s: rate limited", provider))
		e.Cause = err
		return e
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "401") ||
		strings.Contains(msg, "api key") || strings.Contains(msg, "authentication"):
		return types.WrapError(ErrUnauthorized,
			fmt.Sprintf("provider %s: authentication failed", provider), err)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		e := types.NewRetryableError(ErrTimeoutExceeded,
			fmt.Sprintf("provider %s: request timed out", provider))
		e.Cause = err
		return e
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "network"):
		e := types.NewRetryableError(ErrCompletionFailed,
			fmt.Sprintf("provider %s: network failure", provider))
		e.Cause = err
		return e
	}
	return types.WrapError(ErrCompletionFailed,
		fmt.Sprintf("provider %s: completion failed", provider), err)
}
