package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyeError_Error(t *testing.T) {
	err := NewError(CONFIG_LOAD_FAILED, "could not load config")
	assert.Equal(t, "[CONFIG_LOAD_FAILED] could not load config", err.Error())

	wrapped := WrapError(DB_OPEN_FAILED, "open failed", errors.New("disk full"))
	assert.Equal(t, "[DB_OPEN_FAILED] open failed: disk full", wrapped.Error())
}

func TestSyeError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapError(DB_QUERY_FAILED, "query failed", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestSyeError_IsMatchesByCode(t *testing.T) {
	a := NewError(CLASSIFICATION_FAILED, "first")
	b := NewError(CLASSIFICATION_FAILED, "second, different message")
	c := NewError(CLASSIFICATION_NOT_FOUND, "other code")

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
}

func TestSyeError_IsThroughWrapping(t *testing.T) {
	inner := NewError(DB_MIGRATION_FAILED, "migration 3 failed")
	outer := fmt.Errorf("startup: %w", inner)

	assert.ErrorIs(t, outer, NewError(DB_MIGRATION_FAILED, "any message"))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewRetryableError(DB_QUERY_FAILED, "timeout")))
	assert.False(t, IsRetryable(NewError(DB_QUERY_FAILED, "syntax")))
	assert.False(t, IsRetryable(errors.New("plain error")))

	wrapped := fmt.Errorf("context: %w", NewRetryableError(DB_QUERY_FAILED, "timeout"))
	assert.True(t, IsRetryable(wrapped))
}

func TestCodeOf(t *testing.T) {
	code, ok := CodeOf(NewError(CONFIG_PARSE_FAILED, "bad yaml"))
	require.True(t, ok)
	assert.Equal(t, CONFIG_PARSE_FAILED, code)

	_, ok = CodeOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestHealthStatus(t *testing.T) {
	h := Healthy("all good")
	assert.True(t, h.IsHealthy())
	assert.False(t, h.IsUnhealthy())
	assert.False(t, h.CheckedAt.IsZero())

	d := Degraded("slow")
	assert.Equal(t, HealthStateDegraded, d.State)

	u := Unhealthy("down")
	assert.True(t, u.IsUnhealthy())
}

func TestHealthState_IsValid(t *testing.T) {
	assert.True(t, HealthStateHealthy.IsValid())
	assert.True(t, HealthStateDegraded.IsValid())
	assert.True(t, HealthStateUnhealthy.IsValid())
	assert.False(t, HealthState("sideways").IsValid())
}
