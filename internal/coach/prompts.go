package coach

import (
	"fmt"
	"strings"

	"github.com/julianstephens/timewise/internal/constants"
	"github.com/julianstephens/timewise/internal/models"
	"github.com/julianstephens/timewise/internal/stats"
)

// ActivitySummary renders one "- name (category): N minutes" line per activity.
func ActivitySummary(activities []models.Activity) string {
	lines := make([]string, 0, len(activities))
	for _, a := range activities {
		lines = append(lines, fmt.Sprintf("- %s (%s): %d minutes", a.Name, a.Category, a.DurationMin))
	}
	return strings.Join(lines, "\n")
}

// GoalSummary renders the active goals, or a placeholder when there are none.
func GoalSummary(goals []models.Goal) string {
	if len(goals) == 0 {
		return "No specific goals set yet."
	}
	lines := make([]string, 0, len(goals))
	for _, g := range goals {
		target := string(g.TargetType)
		if category, ok := g.Category(); ok {
			target += " " + string(category)
		}
		lines = append(lines, fmt.Sprintf("- Goal: %s (%s)", g.Title, target))
	}
	return strings.Join(lines, "\n")
}

func DailyPrompt(in DailyInput) string {
	recent := in.RecentContext
	if recent == "" {
		recent = constants.NoRecentHistorySentinel
	}

	var sb strings.Builder
	sb.WriteString("You are a highly perceptive time-management coach.\n\n")
	sb.WriteString("CONTEXT:\n")
	sb.WriteString("- User's Active Goals:\n")
	sb.WriteString(GoalSummary(in.Goals))
	sb.WriteString("\n\n- Recent History (Comparison Baseline):\n")
	sb.WriteString(recent)
	sb.WriteString(fmt.Sprintf("\n\n- TODAY'S Log (Total: %d mins):\n", in.TotalMinutes))
	sb.WriteString(ActivitySummary(in.Activities))
	sb.WriteString(`

TASK:
Analyze today's behavior compared to their goals and recent patterns.

Provide exactly 4 sections in Markdown:

1. **📊 Reality Check**: A brief, evaluative summary of how today compares to recent days.
2. **⚠️ Neglected Areas**: Explicitly identify any Goal categories that got 0 minutes or very little attention today.
3. **💡 The Micro-Shift**: Propose ONE specific, realistic minute-swap for tomorrow. Be specific with numbers.
4. **✅ Action Plan**: 2 short bullet points for tomorrow.

Keep it encouraging but objective.
`)
	return sb.String()
}

// RelevantActivities picks the goal's category history, newest first, capped
// at twenty entries. Goals without a category use every activity.
func RelevantActivities(goal models.Goal, activities []models.Activity) []models.Activity {
	relevant := activities
	if category, ok := goal.Category(); ok {
		relevant = make([]models.Activity, 0, len(activities))
		for _, a := range activities {
			if a.Category == category {
				relevant = append(relevant, a)
			}
		}
	}
	relevant = stats.NewestFirst(relevant)
	if len(relevant) > goalAdviceHistory {
		relevant = relevant[:goalAdviceHistory]
	}
	return relevant
}

func GoalPrompt(goal models.Goal, activities []models.Activity) string {
	relevant := RelevantActivities(goal, activities)
	history := "No recent relevant activities logged yet."
	if len(relevant) > 0 {
		lines := make([]string, 0, len(relevant))
		for _, a := range relevant {
			lines = append(lines, fmt.Sprintf("- %s (%s): %d mins on %s", a.Name, a.Category, a.DurationMin, a.Timestamp.Format(constants.DateFormat)))
		}
		history = strings.Join(lines, "\n")
	}

	description := goal.Description
	if description == "" {
		description = "No description provided"
	}
	direction := "Increase"
	if goal.TargetType == models.TargetLess {
		direction = "Decrease"
	}
	target := direction + " time spent"
	if category, ok := goal.Category(); ok {
		target += " on " + string(category)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("The user has set a new goal: %q.\n", goal.Title))
	sb.WriteString(fmt.Sprintf("Description: %q.\n", description))
	sb.WriteString(fmt.Sprintf("Target: %s.\n\n", target))
	sb.WriteString("Here is a snapshot of their recent relevant activities:\n")
	sb.WriteString(history)
	sb.WriteString(`

Based on this, provide 3 short, personalized, highly actionable steps they can take starting today to achieve this goal.
Keep the advice punchy and motivating. Do not use generic advice.
`)
	return sb.String()
}

func WeeklyPrompt(activities []models.Activity, totalMinutes int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Analyze this weekly activity log (Total: %d mins).\n\n", totalMinutes))
	sb.WriteString("Activities:\n")
	sb.WriteString(ActivitySummary(activities))
	sb.WriteString(`

Output a valid JSON object with exactly two arrays: "reduce" and "increase".
- "reduce": List 2-3 specific activities or habits to cut down.
- "increase": List 2-3 specific activities or categories to prioritize.

Example format:
{
  "reduce": ["Late night scrolling", "Excessive gaming"],
  "increase": ["Morning study sessions", "Exercise"]
}
`)
	return sb.String()
}
