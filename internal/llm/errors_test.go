package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

func codeOf(t *testing.T, err error) types.ErrorCode {
	t.Helper()
	code, ok := types.CodeOf(err)
	require.True(t, ok)
	return code
}

func TestTranslateError_RateLimit(t *testing.T) {
	err := TranslateError("openai", errors.New("429 Too Many Requests: rate limit exceeded"))
	assert.Equal(t, ErrRateLimited, codeOf(t, err))
	assert.True(t, types.IsRetryable(err))
}

func TestTranslateError_Auth(t *testing.T) {
	err := TranslateError("anthropic", errors.New("401 unauthorized: invalid api key"))
	assert.Equal(t, ErrUnauthorized, codeOf(t, err))
	assert.False(t, types.IsRetryable(err))
}

func TestTranslateError_Timeout(t *testing.T) {
	err := TranslateError("googleai", errors.New("request timeout"))
	assert.Equal(t, ErrTimeoutExceeded, codeOf(t, err))
	assert.True(t, types.IsRetryable(err))

	err = TranslateError("googleai", context.DeadlineExceeded)
	assert.Equal(t, ErrTimeoutExceeded, codeOf(t, err))
	assert.True(t, types.IsRetryable(err))
}

func TestTranslateError_Network(t *testing.T) {
	err := TranslateError("ollama", errors.New("dial tcp: connection refused"))
	assert.Equal(t, ErrCompletionFailed, codeOf(t, err))
	assert.True(t, types.IsRetryable(err))
}

func TestTranslateError_Generic(t *testing.T) {
	cause := errors.New("model exploded")
	err := TranslateError("openai", cause)
	assert.Equal(t, ErrCompletionFailed, codeOf(t, err))
	assert.False(t, types.IsRetryable(err))
	assert.ErrorIs(t, err, cause)
}

func TestTranslateError_Nil(t *testing.T) {
	assert.NoError(t, TranslateError("openai", nil))
}

func TestNewAuthError(t *testing.T) {
	err := NewAuthError("openai", nil)
	assert.Equal(t, ErrUnauthorized, codeOf(t, err))
}

func TestProviderConfig_Validate(t *testing.T) {
	assert.Error(t, ProviderConfig{}.Validate())
	assert.Error(t, ProviderConfig{Type: "openai", Temperature: 3}.Validate())
	assert.Error(t, ProviderConfig{Type: "openai", MaxTokens: -1}.Validate())
	assert.NoError(t, ProviderConfig{Type: "openai", Temperature: 0.2, MaxTokens: 512}.Validate())
}
