package reports

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/timewise/internal/cli"
	"github.com/julianstephens/timewise/internal/coach"
	"github.com/julianstephens/timewise/internal/constants"
	"github.com/julianstephens/timewise/internal/logger"
)

// TodayCmd is the dashboard: today's totals, breakdown and goals.
type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	sess, err := ctx.Session(context.Background())
	if err != nil {
		return err
	}

	today := sess.Today()
	if len(today.Activities) == 0 {
		ctx.Println(cli.TitleStyle.Render(today.Date.Format("Monday, Jan 2")))
		ctx.Println("Nothing logged yet today. Try 'timewise activity add'.")
	} else {
		ctx.Println(cli.RenderDay(today))
	}

	statuses := sess.GoalStatuses()
	if len(statuses) > 0 {
		ctx.Println()
		ctx.Println(cli.TitleStyle.Render("Goals"))
		for _, status := range statuses {
			ctx.Println(cli.RenderGoal(status))
		}
	}

	ctx.Println()
	ctx.Println(cli.SubtleStyle.Render("Last 3 days: " + sess.RecentContext()))
	return nil
}

// WeekCmd shows weekly history, most recent week first.
type WeekCmd struct {
	Limit   int  `short:"n" default:"4" help:"Number of weeks to show (0 for all)."`
	Analyze bool `help:"Ask the AI coach which habits to reduce and increase for the latest week."`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must be zero or positive, got %d", c.Limit)
	}

	sess, err := ctx.Session(context.Background())
	if err != nil {
		return err
	}

	weeks := sess.Weeks()
	if len(weeks) == 0 {
		ctx.Println("No history yet. Weekly reports appear once activities are logged.")
		return nil
	}
	if c.Limit > 0 && len(weeks) > c.Limit {
		weeks = weeks[:c.Limit]
	}

	for i, w := range weeks {
		if i > 0 {
			ctx.Println()
		}
		ctx.Println(cli.RenderWeek(w))
	}

	if !c.Analyze {
		return nil
	}

	svc, err := ctx.CoachService()
	if err != nil {
		return err
	}
	reqCtx, cancel := cli.RequestContext()
	defer cancel()

	latest := weeks[0]
	analysis, err := svc.WeeklyAnalysis(reqCtx, latest)
	if err != nil {
		return err
	}

	ctx.Println()
	ctx.Println(cli.TitleStyle.Render("Analysis for " + cli.WeekRange(latest)))
	printList(ctx, "Reduce", analysis.Reduce, "No major issues found.")
	printList(ctx, "Increase", analysis.Increase, "Keep it up!")
	return nil
}

func printList(ctx *cli.Context, heading string, items []string, empty string) {
	ctx.Println(cli.SubtleStyle.Render(heading + ":"))
	if len(items) == 0 {
		ctx.Printf("  %s\n", empty)
		return
	}
	for _, item := range items {
		ctx.Printf("  • %s\n", item)
	}
}

// CoachCmd asks for a review of today compared against recent days.
type CoachCmd struct{}

func (c *CoachCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session(context.Background())
	if err != nil {
		return err
	}
	today := sess.Today()

	// An empty day needs no service, so a missing key is not an error here.
	svc, err := ctx.CoachService()
	if err != nil {
		if len(today.Activities) == 0 && errors.Is(err, coach.ErrNotConfigured) {
			ctx.Println(coach.NoActivitiesMessage)
			return nil
		}
		return err
	}

	reqCtx, cancel := cli.RequestContext()
	defer cancel()

	recent := sess.RecentContext()
	if recent == constants.NoRecentDataSentinel {
		logger.Debug("No recent history for coaching baseline")
	}
	text, err := svc.DailyCoaching(reqCtx, coach.DailyInput{
		Activities:    today.Activities,
		TotalMinutes:  today.TotalMinutes,
		Goals:         sess.Goals().Items(),
		RecentContext: recent,
	})
	if err != nil {
		return err
	}
	ctx.Println(cli.Box(text))
	return nil
}
