package activities

import (
	"context"
	"fmt"

	"github.com/julianstephens/timewise/internal/cli"
	"github.com/julianstephens/timewise/internal/models"
	"github.com/julianstephens/timewise/internal/stats"
	"github.com/julianstephens/timewise/internal/utils"
)

type ActivityAddCmd struct {
	Name     string  `arg:"" help:"What you did."`
	Category string  `short:"c" required:"" help:"Category (Study, Work, Social Media, Entertainment, Family Time, Sleep, Exercise, Chores, Other)."`
	Duration float64 `short:"d" required:"" help:"How long it took."`
	Unit     string  `short:"u" enum:"minutes,hours" default:"minutes" help:"Unit of --duration (minutes or hours)."`
}

func (c *ActivityAddCmd) Run(ctx *cli.Context) error {
	category, err := models.ParseCategory(c.Category)
	if err != nil {
		return err
	}
	minutes, err := models.ToMinutes(c.Duration, models.DurationUnit(c.Unit))
	if err != nil {
		return err
	}

	sess, err := ctx.Session(context.Background())
	if err != nil {
		return err
	}
	activity, err := sess.AddActivity(context.Background(), c.Name, category, minutes)
	if err := ctx.SaveOutcome(err); err != nil {
		return fmt.Errorf("failed to add activity: %w", err)
	}

	ctx.Printf("✓ Logged %s (%s, %s)\n", activity.Name, activity.Category, utils.FormatDuration(activity.DurationMin))
	ctx.Printf("  Today: %s tracked\n", utils.FormatDuration(sess.Today().TotalMinutes))
	return nil
}

type ActivityListCmd struct {
	All bool `help:"List every activity instead of only today's."`
}

func (c *ActivityListCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session(context.Background())
	if err != nil {
		return err
	}

	var list []models.Activity
	if c.All {
		list = sess.Activities().Items()
	} else {
		list = sess.Today().Activities
	}
	if len(list) == 0 {
		if c.All {
			ctx.Println("No activities logged yet.")
		} else {
			ctx.Println("No activities logged today.")
		}
		return nil
	}

	lastDay := ""
	for _, a := range stats.NewestFirst(list) {
		if c.All {
			day := a.Timestamp.In(sess.Location()).Format("Mon, Jan 2 2006")
			if day != lastDay {
				if lastDay != "" {
					ctx.Println()
				}
				ctx.Println(cli.TitleStyle.Render(day))
				lastDay = day
			}
		}
		ctx.Println(cli.RenderActivity(a))
	}
	return nil
}

type ActivityDeleteCmd struct {
	ID  string `arg:"" help:"ID of the activity to delete."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ActivityDeleteCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session(context.Background())
	if err != nil {
		return err
	}
	activity, ok := sess.Activities().Get(c.ID)
	if !ok {
		return fmt.Errorf("activity %s not found", c.ID)
	}

	confirmed, err := ctx.ConfirmAction(fmt.Sprintf("Delete %q (%s)?", activity.Name, utils.FormatDuration(activity.DurationMin)), c.Yes)
	if err != nil {
		return err
	}
	if !confirmed {
		ctx.Println("Delete cancelled.")
		return nil
	}

	if _, err := sess.DeleteActivity(context.Background(), c.ID); ctx.SaveOutcome(err) != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	ctx.Printf("✓ Deleted %s\n", activity.Name)
	return nil
}
