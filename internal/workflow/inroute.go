package workflow

import "time"

// MaxETASkew is the largest edit to the captured "now" that still warrants
// texting the on-site contact. A larger edit means the ETA is stale — the
// contact is not notified and the operator sees a warning instead.
const MaxETASkew = 15 * time.Minute

// InRouteDecision is the outcome of the in-route ETA gate.
type InRouteDecision struct {
	Notify bool
	Warn   bool
}

// DecideInRoute compares the operator-edited timestamp with the captured one.
// |confirmed - captured| <= MaxETASkew: notify the contact.
// Beyond the skew: skip notification, surface a warning.
func DecideInRoute(captured, confirmed time.Time) InRouteDecision {
	delta := confirmed.Sub(captured)
	if delta < 0 {
		delta = -delta
	}
	if delta > MaxETASkew {
		return InRouteDecision{Notify: false, Warn: true}
	}
	return InRouteDecision{Notify: true}
}
