package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gotransfer/internal/domain"
)

func TestSlipStatus_Transitions(t *testing.T) {
	assert.True(t, domain.SlipInTransit.CanTransitionTo(domain.SlipCompleted))
	assert.True(t, domain.SlipInTransit.CanTransitionTo(domain.SlipCancelled))
	assert.False(t, domain.SlipInTransit.CanTransitionTo(domain.SlipInTransit))

	for _, terminal := range []domain.SlipStatus{domain.SlipCompleted, domain.SlipCancelled} {
		assert.True(t, terminal.IsTerminal())
		for _, next := range []domain.SlipStatus{domain.SlipInTransit, domain.SlipCompleted, domain.SlipCancelled} {
			assert.False(t, terminal.CanTransitionTo(next), "%s -> %s", terminal, next)
		}
	}
}

func TestSlipStatus_UnknownIsRejected(t *testing.T) {
	unknown := domain.SlipStatus("partially_received")

	assert.False(t, unknown.Valid())
	assert.True(t, unknown.IsTerminal())
	assert.False(t, unknown.CanTransitionTo(domain.SlipCompleted))

	_, ok := domain.ParseSlipStatus("in_transit")
	assert.True(t, ok)
	_, ok = domain.ParseSlipStatus("IN_TRANSIT")
	assert.False(t, ok)
}
