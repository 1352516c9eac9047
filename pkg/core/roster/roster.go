// Package roster holds the pure operations on a RosterCollection.
//
// Collections are expected in canonical form: unique dates and a non-nil
// runner list on every day. Normalize, MergeWindow and EnsureDay produce that
// form and every other operation preserves it, so values built only through
// them compare structurally equal after an add and remove of the same runner.
package roster

import (
	"sort"

	"github.com/google/uuid"

	"github.com/jakechorley/runroster/pkg/core/calendar"
	"github.com/jakechorley/runroster/pkg/core/model"
)

// IDFunc generates runner identifiers
type IDFunc func() string

// View is the read-time split of a collection around today
type View struct {
	Upcoming []model.DayRecord // date >= today, ascending, at most calendar.WindowDays
	History  []model.DayRecord // date < today, most recent first
}

// MergeWindow inserts an empty day record for every window date that is not
// already present. Existing records are returned untouched.
func MergeWindow(c model.RosterCollection, windowDates []string) model.RosterCollection {
	present := make(map[string]bool, len(c))
	for _, day := range c {
		present[day.Date] = true
	}

	merged := c
	copied := false
	for _, date := range windowDates {
		if present[date] {
			continue
		}
		if !copied {
			merged = clone(c, len(windowDates))
			copied = true
		}
		merged = append(merged, model.DayRecord{Date: date, Runners: []model.Runner{}})
		present[date] = true
	}
	return merged
}

// EnsureDay returns a collection guaranteed to hold a record for date
func EnsureDay(c model.RosterCollection, date string) model.RosterCollection {
	return MergeWindow(c, []string{date})
}

// AddRunner appends a new joining runner with zero miles to the day at date
// and returns the new runner's id. If the date is not in the collection the
// collection is returned unchanged with an empty id. Days outside canonical
// form should go through Normalize first.
func AddRunner(c model.RosterCollection, date, name string, newID IDFunc) (model.RosterCollection, string) {
	if newID == nil {
		newID = uuid.NewString
	}

	idx := indexOf(c, date)
	if idx < 0 {
		return c, ""
	}

	runner := model.NewRunner(newID(), name)
	return updateDay(c, idx, func(runners []model.Runner) []model.Runner {
		next := make([]model.Runner, len(runners), len(runners)+1)
		copy(next, runners)
		return append(next, runner)
	}), runner.ID
}

// ToggleJoining flips the participation flag of the matching runner
func ToggleJoining(c model.RosterCollection, date, runnerID string) model.RosterCollection {
	return updateRunner(c, date, runnerID, func(r model.Runner) model.Runner {
		r.IsJoining = !r.IsJoining
		return r
	})
}

// UpdateMiles stores miles on the matching runner. Callers validate the value.
func UpdateMiles(c model.RosterCollection, date, runnerID string, miles float64) model.RosterCollection {
	return updateRunner(c, date, runnerID, func(r model.Runner) model.Runner {
		r.Miles = miles
		return r
	})
}

// RemoveRunner deletes the matching runner from the day's roster
func RemoveRunner(c model.RosterCollection, date, runnerID string) model.RosterCollection {
	idx := indexOf(c, date)
	if idx < 0 || runnerIndex(c[idx].Runners, runnerID) < 0 {
		return c
	}

	return updateDay(c, idx, func(runners []model.Runner) []model.Runner {
		next := make([]model.Runner, 0, len(runners)-1)
		for _, r := range runners {
			if r.ID != runnerID {
				next = append(next, r)
			}
		}
		return next
	})
}

// PartitionView splits the collection into upcoming and history views
func PartitionView(c model.RosterCollection, today string) View {
	var view View
	for _, day := range c {
		if day.Date >= today {
			view.Upcoming = append(view.Upcoming, day)
		} else {
			view.History = append(view.History, day)
		}
	}

	// Zero-padded dates sort chronologically as strings
	sort.Slice(view.Upcoming, func(i, j int) bool {
		return view.Upcoming[i].Date < view.Upcoming[j].Date
	})
	sort.Slice(view.History, func(i, j int) bool {
		return view.History[i].Date > view.History[j].Date
	})

	if len(view.Upcoming) > calendar.WindowDays {
		view.Upcoming = view.Upcoming[:calendar.WindowDays]
	}
	return view
}

// Find returns the day record for date
func Find(c model.RosterCollection, date string) (model.DayRecord, bool) {
	idx := indexOf(c, date)
	if idx < 0 {
		return model.DayRecord{}, false
	}
	return c[idx], true
}

// FindRunner returns the runner with runnerID on date
func FindRunner(c model.RosterCollection, date, runnerID string) (model.Runner, bool) {
	idx := indexOf(c, date)
	if idx < 0 {
		return model.Runner{}, false
	}
	ri := runnerIndex(c[idx].Runners, runnerID)
	if ri < 0 {
		return model.Runner{}, false
	}
	return c[idx].Runners[ri], true
}

// Normalize repairs a loaded collection: duplicate dates keep their first
// record, nil rosters become empty and negative miles clamp to zero.
func Normalize(c model.RosterCollection) model.RosterCollection {
	seen := make(map[string]bool, len(c))
	normalized := make(model.RosterCollection, 0, len(c))

	for _, day := range c {
		if seen[day.Date] {
			continue
		}
		seen[day.Date] = true

		runners := make([]model.Runner, len(day.Runners))
		for i, r := range day.Runners {
			if r.Miles < 0 {
				r.Miles = 0
			}
			runners[i] = r
		}
		normalized = append(normalized, model.DayRecord{Date: day.Date, Runners: runners})
	}
	return normalized
}

func updateRunner(c model.RosterCollection, date, runnerID string, fn func(model.Runner) model.Runner) model.RosterCollection {
	idx := indexOf(c, date)
	if idx < 0 {
		return c
	}
	ri := runnerIndex(c[idx].Runners, runnerID)
	if ri < 0 {
		return c
	}

	return updateDay(c, idx, func(runners []model.Runner) []model.Runner {
		next := make([]model.Runner, len(runners))
		copy(next, runners)
		next[ri] = fn(next[ri])
		return next
	})
}

// updateDay copies the collection and replaces the runners of the day at idx.
// Every other record is carried over by value.
func updateDay(c model.RosterCollection, idx int, fn func([]model.Runner) []model.Runner) model.RosterCollection {
	next := clone(c, 0)
	next[idx] = model.DayRecord{
		Date:    c[idx].Date,
		Runners: fn(c[idx].Runners),
	}
	return next
}

func clone(c model.RosterCollection, extra int) model.RosterCollection {
	next := make(model.RosterCollection, len(c), len(c)+extra)
	copy(next, c)
	return next
}

func indexOf(c model.RosterCollection, date string) int {
	for i, day := range c {
		if day.Date == date {
			return i
		}
	}
	return -1
}

func runnerIndex(runners []model.Runner, runnerID string) int {
	for i, r := range runners {
		if r.ID == runnerID {
			return i
		}
	}
	return -1
}
