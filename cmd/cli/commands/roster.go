package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/runroster/pkg/core/calendar"
	"github.com/jakechorley/runroster/pkg/core/services"
)

// WeekCmd creates the week command
func WeekCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show the upcoming week of runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n%s\n\n", headerStyle.Render("Upcoming Week"))
			fmt.Fprint(out, renderDays(app.Session.Upcoming(), app.Session.Today(), false))
			fmt.Fprintln(out)
			return nil
		},
	}
}

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show past runs, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n%s\n\n", headerStyle.Render("Past Runs"))
			fmt.Fprint(out, renderDays(app.Session.History(), app.Session.Today(), true))
			fmt.Fprintln(out)
			return nil
		},
	}
}

// LeaderboardCmd creates the leaderboard command
func LeaderboardCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank runners by total miles logged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), "\n"+renderLeaderboard(app.Session.Leaderboard())+"\n")
			return nil
		},
	}
}

// AddCmd creates the add command
func AddCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <date|today|+N> <name...>",
		Short: "Sign a runner up for a day",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := resolveDate(args[0], app.Session.Today())
			if err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")

			app.Logger.Debug("add command", zap.String("date", date), zap.String("name", name))

			runner, err := app.Session.AddRunner(app.Ctx, date, name)
			if errors.Is(err, services.ErrOutsideWindow) {
				return fmt.Errorf("%w: signups open %d days ahead, today included", err, calendar.WindowDays)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ %s signed up for %s [%s]\n", runner.Name, formatDayHeading(date), shortID(runner.ID))
			warnUnsaved(app, out)
			return nil
		},
	}
}

// ToggleCmd creates the toggle command
func ToggleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <date> <runner-id>",
		Short: "Flip whether a runner is joining",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, id, err := resolveTarget(app, args[0], args[1])
			if err != nil {
				return err
			}

			runner, err := app.Session.ToggleJoining(app.Ctx, date, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if runner.IsJoining {
				fmt.Fprintf(out, "\n✓ %s is joining on %s\n", runner.Name, formatDayHeading(date))
			} else {
				fmt.Fprintf(out, "\n✗ %s is no longer joining on %s\n", runner.Name, formatDayHeading(date))
			}
			warnUnsaved(app, out)
			return nil
		},
	}
}

// MilesCmd creates the miles command
func MilesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "miles <date> <runner-id> <miles>",
		Short: "Log miles for a joining runner",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, id, err := resolveTarget(app, args[0], args[1])
			if err != nil {
				return err
			}

			runner, err := app.Session.CommitMiles(app.Ctx, date, id, args[2])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ %s: %s miles on %s\n", runner.Name, formatMiles(runner.Miles), formatDayHeading(date))
			warnUnsaved(app, out)
			return nil
		},
	}
}

// RemoveCmd creates the remove command
func RemoveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <date> <runner-id>",
		Short: "Remove a runner's signup",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, id, err := resolveTarget(app, args[0], args[1])
			if err != nil {
				return err
			}

			runner, err := app.Session.RemoveRunner(app.Ctx, date, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Removed %s from %s\n", runner.Name, formatDayHeading(date))
			warnUnsaved(app, out)
			return nil
		},
	}
}

// RegularsCmd creates the regulars command
func RegularsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "regulars",
		Short: "Sign up configured regular runners for the coming week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(app.Cfg.Regulars) == 0 {
				fmt.Fprintln(out, "\nNo regular runners configured.")
				return nil
			}

			added, err := app.Session.SignUpRegulars(app.Ctx)
			if err != nil {
				return err
			}

			if len(added) == 0 {
				fmt.Fprintln(out, "\nAll regular runners are already signed up.")
				return nil
			}

			fmt.Fprintf(out, "\n✓ Signed up %d regular runs:\n", len(added))
			for _, signup := range added {
				fmt.Fprintf(out, "  %s  %s [%s]\n", formatDayHeading(signup.Date), signup.Runner.Name, shortID(signup.Runner.ID))
			}
			warnUnsaved(app, out)
			return nil
		},
	}
}

// MotivateCmd creates the motivate command
func MotivateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "motivate",
		Short: "Fetch a motivational quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if !app.Interactive {
				quote, err := app.Session.Motivate(app.Ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(out, "\n"+renderQuote(quote))
				return nil
			}

			fetch, err := app.Session.StartMotivate()
			if errors.Is(err, services.ErrQuoteInFlight) {
				fmt.Fprintln(out, "⏳ Still thinking...")
				return nil
			}
			if err != nil {
				return err
			}

			// Fetch in the background so the prompt stays usable
			fmt.Fprintln(out, "⏳ Thinking...")
			app.pending.Add(1)
			go func() {
				defer app.pending.Done()
				fmt.Fprint(out, "\n"+renderQuote(fetch(app.Ctx)))
			}()
			return nil
		},
	}
}

// warnUnsaved tells the user when the last change could not be persisted
func warnUnsaved(app *AppContext, out io.Writer) {
	failures := app.Session.PersistFailures()
	if failures > app.reportedFailures {
		fmt.Fprintln(out, "⚠️  Change kept in memory only, it could not be saved (see logs)")
	}
	app.reportedFailures = failures
}
