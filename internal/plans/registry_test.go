package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitsFor(t *testing.T) {
	tests := []struct {
		name string
		plan ID
		want Limits
	}{
		{name: "free", plan: Free, want: Limits{
			Seats:           Finite(1),
			Documents:       Finite(50),
			StorageMB:       Finite(100),
			AICallsPerMonth: Finite(50),
		}},
		{name: "pro", plan: Pro, want: Limits{
			Seats:           Finite(1),
			Documents:       Finite(1000),
			StorageMB:       Finite(5120),
			AICallsPerMonth: Finite(5000),
		}},
		{name: "team", plan: Team, want: Limits{
			Seats:           Finite(10),
			Documents:       Finite(10000),
			StorageMB:       Finite(51200),
			AICallsPerMonth: Finite(20000),
		}},
		{name: "enterprise", plan: Enterprise, want: Limits{
			Seats:           Unbounded,
			Documents:       Unbounded,
			StorageMB:       Unbounded,
			AICallsPerMonth: Unbounded,
		}},
		{name: "unknown falls back to free", plan: ID("platinum"), want: LimitsFor(Free)},
		{name: "empty falls back to free", plan: ID(""), want: LimitsFor(Free)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LimitsFor(tt.plan))
		})
	}
}

func TestLimitAllows(t *testing.T) {
	limit := Finite(50)

	assert.True(t, limit.Allows(0, 50))
	assert.True(t, limit.Allows(49, 1))
	assert.False(t, limit.Allows(50, 1))
	assert.False(t, limit.Allows(0, 51))
	assert.True(t, Unbounded.Allows(1<<40, 1<<40))
}

func TestValid(t *testing.T) {
	for _, id := range All() {
		assert.True(t, Valid(id), "plan %s", id)
	}
	assert.False(t, Valid(ID("platinum")))
	assert.False(t, Valid(ID("")))
}

func TestRegistryMapping(t *testing.T) {
	registry := NewRegistry(map[string]ID{
		"price_pro":  Pro,
		"price_team": Team,
	})

	plan, ok := registry.PlanForPrice("price_pro")
	assert.True(t, ok)
	assert.Equal(t, Pro, plan)

	price, ok := registry.PriceForPlan(Team)
	assert.True(t, ok)
	assert.Equal(t, "price_team", price)

	_, ok = registry.PlanForPrice("price_unknown")
	assert.False(t, ok)

	_, ok = registry.PriceForPlan(Enterprise)
	assert.False(t, ok)
}

func TestRegistrySkipsEmptyPriceIDs(t *testing.T) {
	registry := NewRegistry(map[string]ID{"": Pro})

	_, ok := registry.PlanForPrice("")
	assert.False(t, ok)
	_, ok = registry.PriceForPlan(Pro)
	assert.False(t, ok)
}
