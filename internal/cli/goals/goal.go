package goals

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/timewise/internal/cli"
	"github.com/julianstephens/timewise/internal/logger"
	"github.com/julianstephens/timewise/internal/models"
	"github.com/julianstephens/timewise/internal/session"
)

type GoalAddCmd struct {
	Title       string  `arg:"" optional:"" help:"Goal title. Omit to fill in an interactive form."`
	Description string  `help:"Longer description of the goal."`
	Less        bool    `help:"Aim to spend less time instead of more."`
	Category    string  `short:"c" help:"Category the goal targets."`
	Target      float64 `short:"t" help:"Daily target for the category."`
	Unit        string  `short:"u" enum:"minutes,hours" default:"minutes" help:"Unit of --target (minutes or hours)."`
	NoAdvice    bool    `help:"Do not request AI advice for the new goal."`
}

func (c *GoalAddCmd) Run(ctx *cli.Context) error {
	if strings.TrimSpace(c.Title) == "" {
		if err := c.runForm(); err != nil {
			return err
		}
	}

	targetType := models.TargetMore
	if c.Less {
		targetType = models.TargetLess
	}
	target, err := c.target()
	if err != nil {
		return err
	}

	sess, err := ctx.Session(context.Background())
	if err != nil {
		return err
	}
	goal, err := sess.AddGoal(context.Background(), c.Title, c.Description, targetType, target)
	if err := ctx.SaveOutcome(err); err != nil {
		return fmt.Errorf("failed to add goal: %w", err)
	}
	ctx.Printf("✓ Goal added: %s\n", goal.Title)

	if c.NoAdvice {
		return nil
	}
	return requestAdvice(ctx, sess, goal)
}

func (c *GoalAddCmd) target() (models.Target, error) {
	if strings.TrimSpace(c.Category) == "" {
		if c.Target > 0 {
			return nil, errors.New("--target requires --category")
		}
		return models.GeneralTarget{}, nil
	}
	category, err := models.ParseCategory(c.Category)
	if err != nil {
		return nil, err
	}
	minutes := 0
	if c.Target > 0 {
		if minutes, err = models.ToMinutes(c.Target, models.DurationUnit(c.Unit)); err != nil {
			return nil, err
		}
	}
	return models.TargetFor(category, minutes), nil
}

func (c *GoalAddCmd) runForm() error {
	direction := string(models.TargetMore)
	category := ""
	target := ""

	categoryOptions := []huh.Option[string]{huh.NewOption("None (general goal)", "")}
	for _, cat := range models.Categories {
		categoryOptions = append(categoryOptions, huh.NewOption(string(cat), string(cat)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Goal").
				Placeholder("e.g. Spend less time scrolling").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return models.ErrEmptyTitle
					}
					return nil
				}).
				Value(&c.Title),
			huh.NewText().
				Title("Description").
				Value(&c.Description),
			huh.NewSelect[string]().
				Title("Direction").
				Options(
					huh.NewOption("Spend more time", string(models.TargetMore)),
					huh.NewOption("Spend less time", string(models.TargetLess)),
				).
				Value(&direction),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions...).
				Value(&category),
			huh.NewInput().
				Title("Daily target in minutes (optional)").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if n, err := strconv.Atoi(strings.TrimSpace(s)); err != nil || n <= 0 {
						return models.ErrNonPositiveTarget
					}
					return nil
				}).
				Value(&target),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("goal form failed: %w", err)
	}

	c.Less = direction == string(models.TargetLess)
	c.Category = category
	c.Unit = string(models.UnitMinutes)
	c.Target = 0
	if n, err := strconv.Atoi(strings.TrimSpace(target)); err == nil && category != "" {
		c.Target = float64(n)
	}
	return nil
}

type GoalListCmd struct{}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session(context.Background())
	if err != nil {
		return err
	}
	statuses := sess.GoalStatuses()
	if len(statuses) == 0 {
		ctx.Println("No goals yet. Add one with 'timewise goal add'.")
		return nil
	}
	for i, status := range statuses {
		if i > 0 {
			ctx.Println()
		}
		ctx.Println(cli.RenderGoal(status))
	}
	return nil
}

type GoalAdviseCmd struct {
	ID string `arg:"" help:"ID of the goal to refresh advice for."`
}

func (c *GoalAdviseCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session(context.Background())
	if err != nil {
		return err
	}
	goal, ok := sess.Goals().Get(c.ID)
	if !ok {
		return fmt.Errorf("goal %s not found", c.ID)
	}
	return requestAdvice(ctx, sess, goal)
}

type GoalDeleteCmd struct {
	ID  string `arg:"" help:"ID of the goal to delete."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *GoalDeleteCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session(context.Background())
	if err != nil {
		return err
	}
	goal, ok := sess.Goals().Get(c.ID)
	if !ok {
		return fmt.Errorf("goal %s not found", c.ID)
	}

	confirmed, err := ctx.ConfirmAction(fmt.Sprintf("Delete goal %q?", goal.Title), c.Yes)
	if err != nil {
		return err
	}
	if !confirmed {
		ctx.Println("Delete cancelled.")
		return nil
	}

	if _, err := sess.DeleteGoal(context.Background(), c.ID); ctx.SaveOutcome(err) != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	ctx.Printf("✓ Deleted goal %s\n", goal.Title)
	return nil
}

// requestAdvice asks the coach for advice on goal and stores it. Missing
// configuration leaves the goal without advice rather than failing.
func requestAdvice(ctx *cli.Context, sess *session.Session, goal models.Goal) error {
	svc, err := ctx.CoachService()
	if err != nil {
		logger.Info("Skipping goal advice", "reason", err)
		ctx.Println(cli.WarningStyle.Render("No advice requested: " + err.Error()))
		return nil
	}

	reqCtx, cancel := cli.RequestContext()
	defer cancel()
	advice := svc.GoalAdvice(reqCtx, goal, sess.Activities().Items())

	if _, err := sess.SetGoalAdvice(context.Background(), goal.ID, advice); ctx.SaveOutcome(err) != nil {
		return fmt.Errorf("failed to store advice: %w", err)
	}
	ctx.Println()
	ctx.Println(cli.Box(advice))
	return nil
}
