package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// HealthState represents the health state of a system component.
type HealthState string

const (
	HealthStateHealthy   HealthState = "healthy"
	HealthStateDegraded  HealthState = "degraded"
	HealthStateUnhealthy HealthState = "unhealthy"
)

// String returns the string representation of HealthState.
func (s HealthState) String() string {
	return string(s)
}

// IsValid checks if the HealthState is a known value.
func (s HealthState) IsValid() bool {
	switch s {
	case HealthStateHealthy, HealthStateDegraded, HealthStateUnhealthy:
		return true
	default:
		return false
	}
}

// UnmarshalJSON implements json.Unmarshaler, rejecting unknown states.
func (s *HealthState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	state := HealthState(str)
	if !state.IsValid() {
		return fmt.Errorf("invalid health state: %s", str)
	}
	*s = state
	return nil
}

// HealthStatus reports the health of a component with state, message, and
// the time the check was performed.
type HealthStatus struct {
	State     HealthState `json:"state"`
	Message   string      `json:"message,omitempty"`
	CheckedAt time.Time   `json:"checked_at"`
}

// NewHealthStatus creates a HealthStatus with CheckedAt set to now.
func NewHealthStatus(state HealthState, message string) HealthStatus {
	return HealthStatus{
		State:     state,
		Message:   message,
		CheckedAt: time.Now(),
	}
}

// Healthy creates a healthy status with the given message.
func Healthy(message string) HealthStatus {
	return NewHealthStatus(HealthStateHealthy, message)
}

// Degraded creates a degraded status with the given message.
func Degraded(message string) HealthStatus {
	return NewHealthStatus(HealthStateDegraded, message)
}

// Unhealthy creates an unhealthy status with the given message.
func Unhealthy(message string) HealthStatus {
	return NewHealthStatus(HealthStateUnhealthy, message)
}

// IsHealthy returns true if the state is healthy.
func (h HealthStatus) IsHealthy() bool {
	return h.State == HealthStateHealthy
}

// IsUnhealthy returns true if the state is unhealthy.
func (h HealthStatus) IsUnhealthy() bool {
	return h.State == HealthStateUnhealthy
}
