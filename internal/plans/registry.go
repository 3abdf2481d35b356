package plans

import "os"

type ID string

const (
	Free       ID = "free"
	Pro        ID = "pro"
	Team       ID = "team"
	Enterprise ID = "enterprise"
)

// Limit is a quota ceiling. Unbounded is an explicit sentinel, never 0 or -1,
// so a misconfigured plan can't silently hand out zero quota.
type Limit struct {
	Unlimited bool
	Value     int64
}

func Finite(v int64) Limit { return Limit{Value: v} }

var Unbounded = Limit{Unlimited: true}

// Allows reports whether used+additional still fits under the limit.
func (l Limit) Allows(used, additional int64) bool {
	if l.Unlimited {
		return true
	}
	return used+additional <= l.Value
}

type Limits struct {
	Seats           Limit
	Documents       Limit
	StorageMB       Limit
	AICallsPerMonth Limit
}

var limitsByPlan = map[ID]Limits{
	Free: {
		Seats:           Finite(1),
		Documents:       Finite(50),
		StorageMB:       Finite(100),
		AICallsPerMonth: Finite(50),
	},
	Pro: {
		Seats:           Finite(1),
		Documents:       Finite(1000),
		StorageMB:       Finite(5120),
		AICallsPerMonth: Finite(5000),
	},
	Team: {
		Seats:           Finite(10),
		Documents:       Finite(10000),
		StorageMB:       Finite(51200),
		AICallsPerMonth: Finite(20000),
	},
	Enterprise: {
		Seats:           Unbounded,
		Documents:       Unbounded,
		StorageMB:       Unbounded,
		AICallsPerMonth: Unbounded,
	},
}

// LimitsFor is pure and total: unknown plan ids resolve to free limits.
func LimitsFor(id ID) Limits {
	if limits, ok := limitsByPlan[id]; ok {
		return limits
	}
	return limitsByPlan[Free]
}

func Valid(id ID) bool {
	_, ok := limitsByPlan[id]
	return ok
}

func All() []ID {
	return []ID{Free, Pro, Team, Enterprise}
}

// Registry owns the processor price-id <-> plan mapping, so the webhook
// price-id fallback lives in one place instead of being scattered.
type Registry struct {
	priceToPlan map[string]ID
	planToPrice map[ID]string
}

func NewRegistry(priceToPlan map[string]ID) *Registry {
	r := &Registry{
		priceToPlan: make(map[string]ID, len(priceToPlan)),
		planToPrice: make(map[ID]string, len(priceToPlan)),
	}
	for price, plan := range priceToPlan {
		if price == "" {
			continue
		}
		r.priceToPlan[price] = plan
		r.planToPrice[plan] = price
	}
	return r
}

func NewRegistryFromEnv() *Registry {
	return NewRegistry(map[string]ID{
		os.Getenv("STRIPE_PRICE_PRO_MONTH"):        Pro,
		os.Getenv("STRIPE_PRICE_TEAM_MONTH"):       Team,
		os.Getenv("STRIPE_PRICE_ENTERPRISE_MONTH"): Enterprise,
	})
}

func (r *Registry) PlanForPrice(priceID string) (ID, bool) {
	plan, ok := r.priceToPlan[priceID]
	return plan, ok
}

func (r *Registry) PriceForPlan(id ID) (string, bool) {
	price, ok := r.planToPrice[id]
	return price, ok
}
