package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jakechorley/runroster/pkg/core/calendar"
	"github.com/jakechorley/runroster/pkg/core/leaderboard"
	"github.com/jakechorley/runroster/pkg/core/model"
)

// shortIDLen is how much of a runner id is shown; any unique prefix is accepted back
const shortIDLen = 8

var (
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	todayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	milesStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	joiningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	notJoinStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	quoteStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Italic(true).Border(lipgloss.RoundedBorder()).Padding(0, 1)
	leaderboardBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
)

var medalStyles = map[leaderboard.Medal]lipgloss.Style{
	leaderboard.MedalGold:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
	leaderboard.MedalSilver: lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true),
	leaderboard.MedalBronze: lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
}

// formatMiles renders mileage to one decimal place
func formatMiles(miles float64) string {
	return strconv.FormatFloat(miles, 'f', 1, 64)
}

// formatDayHeading renders a date identifier as e.g. "Monday, Jan 1"
func formatDayHeading(date string) string {
	t, err := calendar.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("Monday, Jan 2")
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// renderDay renders one day card. Past days show no edit hints.
func renderDay(day model.DayRecord, today string) string {
	var b strings.Builder
	readOnly := day.Date < today

	var joining int
	var total float64
	for _, r := range day.Runners {
		if r.IsJoining {
			joining++
			total += r.Miles
		}
	}

	heading := headerStyle.Render(formatDayHeading(day.Date)) + dimStyle.Render(" ("+day.Date+")")
	if day.Date == today {
		heading += " " + todayStyle.Render("TODAY")
	}
	if readOnly {
		heading += " " + dimStyle.Render("read-only")
	}
	b.WriteString(heading + "\n")
	fmt.Fprintf(&b, "  %s joining · Total Miles: %s\n",
		joiningStyle.Render(strconv.Itoa(joining)),
		milesStyle.Render(formatMiles(total)))

	if len(day.Runners) == 0 {
		if readOnly {
			b.WriteString(dimStyle.Render("  No runs were logged for this day.") + "\n")
		} else {
			b.WriteString(dimStyle.Render("  No runners yet. Be the first!") + "\n")
		}
		return b.String()
	}

	for _, r := range day.Runners {
		id := dimStyle.Render("[" + shortID(r.ID) + "]")
		if r.IsJoining {
			fmt.Fprintf(&b, "  %s %s %s  %s mi\n", id, joiningStyle.Render("✓"), r.Name, milesStyle.Render(formatMiles(r.Miles)))
		} else {
			fmt.Fprintf(&b, "  %s %s %s\n", id, dimStyle.Render("✗"), notJoinStyle.Render(r.Name))
		}
	}
	return b.String()
}

// renderDays renders a list of day cards, or the empty-state message for the view
func renderDays(days []model.DayRecord, today string, history bool) string {
	if len(days) == 0 {
		if history {
			return headerStyle.Render("No Runs Here") + "\n" + dimStyle.Render("You haven't logged any past runs yet.") + "\n"
		}
		return headerStyle.Render("No Runs Here") + "\n" + dimStyle.Render("No upcoming runs scheduled. Time to plan!") + "\n"
	}

	cards := make([]string, 0, len(days))
	for _, day := range days {
		cards = append(cards, renderDay(day, today))
	}
	return strings.Join(cards, "\n")
}

// renderLeaderboard renders the ranked mileage table
func renderLeaderboard(entries []model.LeaderboardEntry) string {
	title := headerStyle.Render("Weekly Mileage Tracker")
	if len(entries) == 0 {
		return leaderboardBox.Render(title+"\n"+dimStyle.Render("No mileage logged yet. Let's get running!")) + "\n"
	}

	nameWidth := 0
	for _, e := range entries {
		nameWidth = max(nameWidth, lipgloss.Width(e.Name))
	}

	lines := []string{title}
	for _, e := range entries {
		rank := fmt.Sprintf("%2d", e.Rank)
		if style, ok := medalStyles[leaderboard.MedalFor(e.Rank)]; ok {
			rank = style.Render(" 🏆")
		}
		name := e.Name + strings.Repeat(" ", nameWidth-lipgloss.Width(e.Name))
		lines = append(lines, fmt.Sprintf("%s  %s  %s %s", rank, name, milesStyle.Render(formatMiles(e.TotalMiles)), dimStyle.Render("miles")))
	}
	return leaderboardBox.Render(strings.Join(lines, "\n")) + "\n"
}

func renderQuote(quote string) string {
	return quoteStyle.Render(quote) + "\n"
}
