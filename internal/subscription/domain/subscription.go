package domain

import "time"

// Plan is the subscription plan type.
type Plan string

const (
	PlanFree     Plan = "FREE"
	PlanMonthly  Plan = "MONTHLY"
	PlanAnnually Plan = "ANNUALLY"
)

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanMonthly, PlanAnnually:
		return true
	}
	return false
}

// Subscription is a user's plan and its validity window. One subscription per
// user. For non-FREE plans "active" is derived from the window; FREE is
// unconditionally active.
type Subscription struct {
	UserID    string
	Plan      Plan
	StartDate time.Time
	EndDate   time.Time
	Active    bool
}
