package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlanKnownPlans(t *testing.T) {
	tests := []struct {
		id          string
		wantCredits int64
		wantAmount  int64
	}{
		{id: "basic", wantCredits: 100, wantAmount: 300},
		{id: "premium", wantCredits: 300, wantAmount: 800},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			plan, ok := GetPlan(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.id, plan.ID)
			assert.Equal(t, tt.wantCredits, plan.Credits)
			assert.Equal(t, tt.wantAmount, plan.Amount)
			assert.Equal(t, "INR", plan.Currency)
		})
	}
}

func TestGetPlanUnknown(t *testing.T) {
	_, ok := GetPlan("gold")
	assert.False(t, ok)

	_, ok = GetPlan("")
	assert.False(t, ok)
}

func TestAvailablePlansCount(t *testing.T) {
	assert.Len(t, AvailablePlans(), 2)
}
