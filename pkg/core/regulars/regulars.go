package regulars

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/runroster/pkg/core/calendar"
)

// Regular is a runner who signs up on a recurring schedule. Start is the
// YYYY-MM-DD date the rule counts from.
type Regular struct {
	Name  string
	RRule string
	Start string
}

// Plan returns, for each window date, the names of regulars whose rule fires
// on that date. Names keep the order regulars were given in.
func Plan(regulars []Regular, window []string) (map[string][]string, error) {
	plan := make(map[string][]string)
	if len(window) == 0 {
		return plan, nil
	}

	windowStart, err := calendar.ParseDate(window[0])
	if err != nil {
		return nil, err
	}
	windowEnd, err := calendar.ParseDate(window[len(window)-1])
	if err != nil {
		return nil, err
	}

	inWindow := make(map[string]bool, len(window))
	for _, date := range window {
		inWindow[date] = true
	}

	for i, regular := range regulars {
		rule, err := rrule.StrToRRule(regular.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rrule for regular %d (%s): %w", i, regular.Name, err)
		}

		start, err := calendar.ParseDate(regular.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid start for regular %d (%s): %w", i, regular.Name, err)
		}

		// INTERVAL, COUNT and UNTIL all count from the fixed anchor, never the window
		rule.DTStart(start)

		for _, occurrence := range rule.Between(windowStart, windowEnd.Add(24*time.Hour-time.Second), true) {
			date := calendar.DateString(occurrence)
			if inWindow[date] {
				plan[date] = append(plan[date], regular.Name)
			}
		}
	}

	return plan, nil
}
