// Package billing tracks organization plans, video usage and the payment
// provider webhook.
package billing

// Plan names known to the payment provider.
const (
	PlanFree     = "free"
	PlanStarter  = "starter"
	PlanPro      = "pro"
	PlanBusiness = "business"
)

// planLimits maps a plan to its monthly video allowance. Zero is unlimited.
var planLimits = map[string]int{
	PlanFree:     5,
	PlanStarter:  25,
	PlanPro:      100,
	PlanBusiness: 0,
}

// PlanLimit returns the monthly video allowance of a plan.
func PlanLimit(plan string) (int, bool) {
	limit, ok := planLimits[plan]
	return limit, ok
}
