package model

import (
	json "github.com/goccy/go-json"
)

// Runner represents one person's signup for a single day
type Runner struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	IsJoining bool    `json:"isJoining"`
	Miles     float64 `json:"miles"`
}

// DayRecord represents the roster for one calendar date (YYYY-MM-DD)
type DayRecord struct {
	Date    string   `json:"date"`
	Runners []Runner `json:"runners"`
}

// RosterCollection is the full persisted set of day records, keyed by Date.
// Order carries no meaning; views sort at read time.
type RosterCollection []DayRecord

// LeaderboardEntry represents one ranked runner name with its accumulated mileage
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	Name       string  `json:"name"`
	TotalMiles float64 `json:"totalMiles"`
}

// NewRunner creates a runner with the signup defaults
func NewRunner(id, name string) Runner {
	return Runner{
		ID:        id,
		Name:      name,
		IsJoining: true,
		Miles:     0,
	}
}

// UnmarshalJSON decodes a stored runner, defaulting fields that older
// snapshots may not carry. A missing isJoining means the runner signed up.
func (r *Runner) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string   `json:"id"`
		Name      string   `json:"name"`
		IsJoining *bool    `json:"isJoining"`
		Miles     *float64 `json:"miles"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = NewRunner(raw.ID, raw.Name)
	if raw.IsJoining != nil {
		r.IsJoining = *raw.IsJoining
	}
	if raw.Miles != nil && *raw.Miles > 0 {
		r.Miles = *raw.Miles
	}
	return nil
}

// UnmarshalJSON decodes a stored day, replacing a null runner list with an empty one
func (d *DayRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date    string   `json:"date"`
		Runners []Runner `json:"runners"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.Date = raw.Date
	d.Runners = raw.Runners
	if d.Runners == nil {
		d.Runners = []Runner{}
	}
	return nil
}

// MarshalJSON writes a nil runner list as an empty array so nil and empty
// rosters share one stored form
func (d DayRecord) MarshalJSON() ([]byte, error) {
	runners := d.Runners
	if runners == nil {
		runners = []Runner{}
	}
	return json.Marshal(struct {
		Date    string   `json:"date"`
		Runners []Runner `json:"runners"`
	}{Date: d.Date, Runners: runners})
}

// Dates returns the date keys of the collection in stored order
func (c RosterCollection) Dates() []string {
	dates := make([]string, len(c))
	for i, day := range c {
		dates[i] = day.Date
	}
	return dates
}
