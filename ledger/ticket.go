package ledger

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"bikeshop-backend/models"
	"bikeshop-backend/utils"
)

// TicketAllocator mints the human-readable ticket identifier for a new job
// offer, formatted INITIALS-PHONE4-YYMMDD-SEQ, e.g. "JD-4567-241221-01".
//
// SEQ counts the customer's job offers created during the current local
// calendar day. The count is read from the job offers that exist at call
// time, not reserved atomically, so two tickets created concurrently for the
// same customer on the same day can end up with the same SEQ. The ticket is
// a human-readable label, not a uniqueness key.
type TicketAllocator struct {
	// Now supplies the current time; defaults to time.Now.
	Now func() time.Time
}

func (a *TicketAllocator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Generate builds a ticket ID for the given customer. jobOffers is the full
// set of existing job offers, used for same-day sequence counting. A nil
// customer yields an UNKNOWN fallback rather than an error.
func (a *TicketAllocator) Generate(customer *models.Customer, jobOffers []models.JobOffer) string {
	now := a.now()
	if customer == nil {
		return fmt.Sprintf("UNKNOWN-%d", now.UnixMilli())
	}

	var initials strings.Builder
	for _, word := range strings.Fields(customer.Name) {
		r := []rune(word)
		initials.WriteRune(unicode.ToUpper(r[0]))
	}

	phoneDigits := lastDigits(customer.PhoneNumber, 4)
	dateStr := now.Format("060102")

	todayStart := utils.BeginningOfDay(now)
	todayEnd := todayStart.Add(24 * time.Hour)
	count := 0
	for _, job := range jobOffers {
		if job.CustomerID != customer.ID {
			continue
		}
		if !job.CreatedAt.Before(todayStart) && job.CreatedAt.Before(todayEnd) {
			count++
		}
	}

	return fmt.Sprintf("%s-%s-%s-%02d", initials.String(), phoneDigits, dateStr, count+1)
}

// lastDigits strips everything but digits and keeps the trailing n of them.
// A shorter number is used as-is, no padding.
func lastDigits(s string, n int) string {
	var digits []rune
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) > n {
		digits = digits[len(digits)-n:]
	}
	return string(digits)
}
