package availability

import (
	"time"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
)

// ExpandRules turns weekly rules into one slot per calendar day of each
// rule's [StartDate, EndDate]. Days before today and days more than
// horizonDays after today are dropped. Rules landing on the same date
// contribute their ranges in rule order. Rules with unreadable dates are
// skipped.
func ExpandRules(rules []domain.WeeklyRule, today time.Time, horizonDays int) domain.AvailabilityMap {
	loc := today.Location()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	last := today.AddDate(0, 0, horizonDays)

	slots := make(domain.AvailabilityMap)
	for _, rule := range rules {
		start, err := parseDate(rule.StartDate, loc)
		if err != nil {
			continue
		}
		end, err := parseDate(rule.EndDate, loc)
		if err != nil {
			continue
		}
		if start.Before(today) {
			start = today
		}
		if end.After(last) {
			end = last
		}

		tr := domain.TimeRange{StartTime: rule.StartTime, EndTime: rule.EndTime}
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			key := day.Format(domain.DateLayout)
			slots[key] = append(slots[key], tr)
		}
	}
	return slots
}
