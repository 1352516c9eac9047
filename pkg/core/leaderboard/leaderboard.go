package leaderboard

import (
	"sort"

	"github.com/jakechorley/runroster/pkg/core/model"
)

// Medal identifies the top three places
type Medal string

const (
	MedalNone   Medal = ""
	MedalGold   Medal = "gold"
	MedalSilver Medal = "silver"
	MedalBronze Medal = "bronze"
)

// Compute ranks runner names by total qualifying miles across every day.
// Only joining runners with positive miles count. Names are matched exactly,
// so differently cased names are separate entries.
//
// Entries are sorted by total descending; equal totals are ordered by name
// ascending so the result never depends on the collection's stored order.
func Compute(c model.RosterCollection) []model.LeaderboardEntry {
	totals := make(map[string]float64)

	for _, day := range c {
		for _, runner := range day.Runners {
			if !runner.IsJoining || runner.Miles <= 0 {
				continue
			}
			totals[runner.Name] += runner.Miles
		}
	}

	entries := make([]model.LeaderboardEntry, 0, len(totals))
	for name, total := range totals {
		entries = append(entries, model.LeaderboardEntry{Name: name, TotalMiles: total})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalMiles != entries[j].TotalMiles {
			return entries[i].TotalMiles > entries[j].TotalMiles
		}
		return entries[i].Name < entries[j].Name
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}

// MedalFor returns the medal awarded to a 1-based rank
func MedalFor(rank int) Medal {
	switch rank {
	case 1:
		return MedalGold
	case 2:
		return MedalSilver
	case 3:
		return MedalBronze
	default:
		return MedalNone
	}
}
