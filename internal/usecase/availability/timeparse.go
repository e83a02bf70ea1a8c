package availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
)

var clockLayouts = []string{
	"3:04 PM",
	"3:04PM",
	"3:04:05 PM",
	"3 PM",
	"3PM",
	"15:04",
	"15:04:05",
}

// ParseClock converts a 12-hour or 24-hour wall clock string into minutes
// since midnight.
func ParseClock(s string) (int, error) {
	v := strings.ToUpper(strings.Join(strings.Fields(s), " "))
	v = strings.ReplaceAll(v, ".", "")
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("invalid time %q", s)
}

// parseDate parses a YYYY-MM-DD date in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(domain.DateLayout, strings.TrimSpace(s), loc)
}

func validateRange(verr *domain.ValidationError, field string, r domain.TimeRange) {
	start, serr := ParseClock(r.StartTime)
	if serr != nil {
		verr.Add(field+".startTime", fmt.Sprintf("The start time %q is not a valid time.", r.StartTime))
	}
	end, eerr := ParseClock(r.EndTime)
	if eerr != nil {
		verr.Add(field+".endTime", fmt.Sprintf("The end time %q is not a valid time.", r.EndTime))
	}
	if serr == nil && eerr == nil && start >= end {
		verr.Add(field, fmt.Sprintf("Start time (%s) must be before end time (%s).", r.StartTime, r.EndTime))
	}
}
