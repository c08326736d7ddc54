package scheduledomain

import (
	"fmt"
	"strings"
	"time"

	"github.com/Black-And-White-Club/moto-pickem/app/shared/clock"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseRaceDate accepts an ISO or US date, or natural language such as
// "next saturday", and returns the calendar date at UTC midnight.
func ParseRaceDate(input string, c clock.Clock) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("race date is required")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return dateOnly(t), nil
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	r, err := w.Parse(strings.ToLower(input), c.Now())
	if err != nil {
		return time.Time{}, fmt.Errorf("parse race date %q: %w", input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("could not recognize race date %q", input)
	}
	return dateOnly(r.Time), nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
