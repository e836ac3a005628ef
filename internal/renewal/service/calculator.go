package service

import (
	"time"

	"github.com/casekit/lexbill/internal/config"
	renewaldomain "github.com/casekit/lexbill/internal/renewal/domain"
)

// hoursPerYear uses a 365-day year. The grace-period windows drift slightly
// from calendar years under this approximation; the checkout flow and its
// historical quotes were built against it, so it is kept deliberately.
const hoursPerYear = 24 * 365

// ComputeLineItems builds the priced line-item list for a renewal. It is
// pure and deterministic for a given "now"; callers inject the clock value
// rather than reading wall time here. Output order is fixed and significant
// for display.
func ComputeLineItems(req renewaldomain.FeeRequest, fees config.FeeSchedule, now time.Time) []renewaldomain.LineItem {
	items := []renewaldomain.LineItem{
		{
			Name:            "Section 8 Declaration Service",
			Description:     "Preparation and filing of the Section 8 declaration of continued use",
			UnitAmountCents: fees.BaseServiceFeeCents,
			Quantity:        1,
		},
	}

	if req.ProcessingSpeed == renewaldomain.ProcessingSpeedRush {
		items = append(items, renewaldomain.LineItem{
			Name:            "Rush Processing",
			Description:     "Expedited preparation and filing",
			UnitAmountCents: fees.RushFeeCents,
			Quantity:        1,
		})
	}

	items = append(items, renewaldomain.LineItem{
		Name:            "USPTO Section 8 Filing Fee",
		Description:     "Government filing fee, per class",
		UnitAmountCents: fees.Section8FeeCents,
		Quantity:        1,
	})

	if req.RegistrationDate != nil && inGracePeriod(*req.RegistrationDate, now) {
		items = append(items, renewaldomain.LineItem{
			Name:            "USPTO Grace Period Fee",
			Description:     "Government surcharge for filing within the grace period",
			UnitAmountCents: fees.GracePeriodFeeCents,
			Quantity:        1,
		})
	}

	if wantsSection15(req) {
		items = append(items, renewaldomain.LineItem{
			Name:            "USPTO Section 15 Filing Fee",
			Description:     "Government fee for the declaration of incontestability",
			UnitAmountCents: fees.Section15FeeCents,
			Quantity:        1,
		})
	}

	if req.Section9 {
		items = append(items, renewaldomain.LineItem{
			Name:            "USPTO Section 9 Renewal Fee",
			Description:     "Government fee for registration renewal",
			UnitAmountCents: fees.Section9FeeCents,
			Quantity:        1,
		})
	}

	return items
}

// Total sums the extended amounts. No rounding; everything is integer cents.
func Total(items []renewaldomain.LineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.ExtendedAmountCents()
	}
	return total
}

// inGracePeriod reports whether the registration age falls in (5.5y, 6y] or
// (9.5y, 10y], the USPTO grace windows for Section 8 and Section 9 filings.
// Both right boundaries are inclusive.
func inGracePeriod(registered, now time.Time) bool {
	years := now.Sub(registered).Hours() / hoursPerYear
	return (years > 5.5 && years <= 6) || (years > 9.5 && years <= 10)
}

// wantsSection15 applies the filing eligibility rule: an explicit "no" on
// continuous use or an explicit "yes" on an open challenge blocks the
// Section 15 fee; unknown or missing answers are permissive.
func wantsSection15(req renewaldomain.FeeRequest) bool {
	if !req.Section15 {
		return false
	}
	if req.Section15Continuous == renewaldomain.AnswerNo {
		return false
	}
	if req.Section15Challenged == renewaldomain.AnswerYes {
		return false
	}
	return true
}
