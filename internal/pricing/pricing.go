// Package pricing computes rental cost quotes from a listing's price and
// price unit. Quotes are informational; the recorded payment is whatever the
// parties actually settle on.
package pricing

import (
	"fmt"
	"time"

	"nkadime-backend/internal/domain"
)

// Quote is the cost estimate for renting a listing over a date range.
type Quote struct {
	Days       int    `json:"days"`
	Units      int    `json:"units"`
	PriceUnit  string `json:"priceUnit"`
	UnitCents  int64  `json:"unitPrice"`
	TotalCents int64  `json:"total"`
}

const daysPerWeek = 7
const daysPerMonth = 30

// RentalDays counts the rental duration inclusive of both endpoints, so a
// same-day rental is one day.
func RentalDays(startDate, endDate time.Time) (int, error) {
	if endDate.Before(startDate) {
		return 0, fmt.Errorf("end date must not precede start date")
	}
	days := int(endDate.Sub(startDate).Hours()/24) + 1
	return days, nil
}

// ForListing computes a quote for the given range. Partial units round up:
// eight days at a weekly rate bill as two weeks.
func ForListing(l *domain.Listing, startDate, endDate time.Time) (Quote, error) {
	days, err := RentalDays(startDate, endDate)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		Days:      days,
		PriceUnit: l.PriceUnit,
		UnitCents: l.PriceCents,
	}

	switch l.PriceUnit {
	case "week":
		q.Units = roundUp(days, daysPerWeek)
	case "month":
		q.Units = roundUp(days, daysPerMonth)
	default:
		q.Units = days
		q.PriceUnit = "day"
	}

	q.TotalCents = int64(q.Units) * l.PriceCents
	return q, nil
}

func roundUp(days, per int) int {
	units := days / per
	if days%per > 0 {
		units++
	}
	if units < 1 {
		units = 1
	}
	return units
}
