package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jakechorley/runroster/pkg/core/calendar"
	"github.com/jakechorley/runroster/pkg/core/model"
	"github.com/jakechorley/runroster/pkg/core/services"
)

// resolveDate accepts "today", "tomorrow", "+N" (days from today) or a YYYY-MM-DD date
func resolveDate(arg, today string) (string, error) {
	switch arg = strings.TrimSpace(strings.ToLower(arg)); {
	case arg == "today":
		return today, nil
	case arg == "tomorrow":
		return calendar.AddDays(today, 1)
	case strings.HasPrefix(arg, "+"):
		n, err := strconv.Atoi(arg[1:])
		if err != nil || n < 0 {
			return "", fmt.Errorf("day offset must be a non-negative number, got: %s", arg)
		}
		return calendar.AddDays(today, n)
	}

	if _, err := calendar.ParseDate(arg); err != nil {
		return "", err
	}
	return arg, nil
}

// resolveRunnerID matches an exact runner id or a unique id prefix on day
func resolveRunnerID(day model.DayRecord, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("runner id cannot be empty")
	}

	var matches []string
	for _, r := range day.Runners {
		if r.ID == prefix {
			return r.ID, nil
		}
		if strings.HasPrefix(r.ID, prefix) {
			matches = append(matches, r.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s on %s", services.ErrRunnerNotFound, prefix, day.Date)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("runner id %q is ambiguous on %s (%d matches)", prefix, day.Date, len(matches))
	}
}

// resolveTarget turns date and runner-id arguments into a concrete day and runner id
func resolveTarget(app *AppContext, dateArg, idArg string) (string, string, error) {
	date, err := resolveDate(dateArg, app.Session.Today())
	if err != nil {
		return "", "", err
	}

	day, ok := app.Session.Day(date)
	if !ok {
		return "", "", fmt.Errorf("%w: %s", services.ErrDayNotFound, date)
	}

	id, err := resolveRunnerID(day, idArg)
	if err != nil {
		return "", "", err
	}
	return date, id, nil
}
