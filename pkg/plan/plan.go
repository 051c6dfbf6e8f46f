package plan

import "errors"

// Plan identifies one of the two independent entitlement tracks an account can
// hold. An account may hold both concurrently; each is granted, billed, and
// expired on its own.
type Plan string

const (
	Personal Plan = "personal"
	Business Plan = "business"
)

// Selector is what callers send when choosing what to buy or trial. Unlike
// Plan it includes the combined option, which is not a plan of its own but a
// shorthand for both tracks at once.
type Selector string

const (
	SelectPersonal Selector = "PERSONAL"
	SelectBusiness Selector = "BUSINESS"
	SelectCombined Selector = "COMBINED"
)

var ErrUnknownPlan = errors.New("unknown plan")

// All lists every concrete plan. Order matters: combined requests are
// processed personal-first.
func All() []Plan {
	return []Plan{Personal, Business}
}

// Valid reports whether p is a known concrete plan.
func (p Plan) Valid() bool {
	return p == Personal || p == Business
}

// DisplayName returns the user-facing name for error messages and UI copy.
func (p Plan) DisplayName() string {
	switch p {
	case Personal:
		return "Personal"
	case Business:
		return "Business"
	default:
		return string(p)
	}
}

// Expand resolves a selector into the concrete plans it covers. The combined
// selector expands to both plans; it never becomes a third plan value.
func Expand(s Selector) ([]Plan, error) {
	switch s {
	case SelectPersonal:
		return []Plan{Personal}, nil
	case SelectBusiness:
		return []Plan{Business}, nil
	case SelectCombined:
		return []Plan{Personal, Business}, nil
	default:
		return nil, ErrUnknownPlan
	}
}
