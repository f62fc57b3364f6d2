// Package coach turns aggregated activity data into prompts for a text
// generation model and interprets its replies.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/timewise/internal/logger"
	"github.com/julianstephens/timewise/internal/models"
	"github.com/julianstephens/timewise/internal/stats"
)

var (
	// ErrNotConfigured is returned when no API key is available.
	ErrNotConfigured = errors.New("AI coaching is not configured: set GEMINI_API_KEY or run 'timewise apikey set'")
	// ErrMalformedResponse is returned when a structured reply cannot be parsed.
	ErrMalformedResponse = errors.New("malformed response from coaching service")
)

const (
	NoActivitiesMessage  = "Please log some activities first so I can analyze your day!"
	EmptyCoachingMessage = "I couldn't generate a response. Please try again."
	AdviceFallback       = "Focus on small daily improvements."
	EmptyAdviceFallback  = "Focus on consistency and small steps."

	goalAdviceHistory = 20
)

// Service is the coaching collaborator consumed by the CLI.
type Service interface {
	DailyCoaching(ctx context.Context, in DailyInput) (string, error)
	GoalAdvice(ctx context.Context, goal models.Goal, activities []models.Activity) string
	WeeklyAnalysis(ctx context.Context, week stats.Week) (WeeklyAnalysis, error)
}

// Request is one text generation call.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
	JSON        bool
}

// Generator produces model text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// DailyInput is today's log plus the context the daily coaching compares against.
type DailyInput struct {
	Activities    []models.Activity
	TotalMinutes  int
	Goals         []models.Goal
	RecentContext string
}

// WeeklyAnalysis lists habits to cut down and to prioritize.
type WeeklyAnalysis struct {
	Reduce   []string `json:"reduce"`
	Increase []string `json:"increase"`
}

type Coach struct {
	gen Generator
}

var _ Service = (*Coach)(nil)

func New(gen Generator) *Coach {
	return &Coach{gen: gen}
}

// DailyCoaching asks for a four-section review of today. With nothing
// logged it answers locally.
func (c *Coach) DailyCoaching(ctx context.Context, in DailyInput) (string, error) {
	if len(in.Activities) == 0 {
		return NoActivitiesMessage, nil
	}

	text, err := c.gen.Generate(ctx, Request{
		System:      "You are an expert time management coach. Be concise and precise.",
		Prompt:      DailyPrompt(in),
		Temperature: 0.7,
	})
	if err != nil {
		logger.Error("Daily coaching request failed", "error", err)
		return "", fmt.Errorf("failed to connect to the productivity coach: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return EmptyCoachingMessage, nil
	}
	return text, nil
}

// GoalAdvice never fails: on error it returns generic advice.
func (c *Coach) GoalAdvice(ctx context.Context, goal models.Goal, activities []models.Activity) string {
	text, err := c.gen.Generate(ctx, Request{
		System:      "You are a strategic habit coach. Provide concrete steps.",
		Prompt:      GoalPrompt(goal, activities),
		Temperature: 0.7,
	})
	if err != nil {
		logger.Warn("Goal advice request failed", "goal", goal.ID, "error", err)
		return AdviceFallback
	}
	if strings.TrimSpace(text) == "" {
		return EmptyAdviceFallback
	}
	return text
}

func (c *Coach) WeeklyAnalysis(ctx context.Context, week stats.Week) (WeeklyAnalysis, error) {
	text, err := c.gen.Generate(ctx, Request{
		System:      "You are a data analyst. Output JSON only.",
		Prompt:      WeeklyPrompt(week.Activities, week.TotalMinutes),
		Temperature: 0.5,
		JSON:        true,
	})
	if err != nil {
		logger.Error("Weekly analysis request failed", "week", week.Key(), "error", err)
		return WeeklyAnalysis{}, fmt.Errorf("failed to analyze week: %w", err)
	}
	return ParseWeeklyAnalysis(text)
}

// ParseWeeklyAnalysis reads a {reduce, increase} object, tolerating
// markdown code fences around it.
func ParseWeeklyAnalysis(text string) (WeeklyAnalysis, error) {
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var raw struct {
		Reduce   *[]string `json:"reduce"`
		Increase *[]string `json:"increase"`
	}
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		return WeeklyAnalysis{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if raw.Reduce == nil && raw.Increase == nil {
		return WeeklyAnalysis{}, fmt.Errorf("%w: missing reduce and increase", ErrMalformedResponse)
	}

	out := WeeklyAnalysis{Reduce: []string{}, Increase: []string{}}
	if raw.Reduce != nil {
		out.Reduce = *raw.Reduce
	}
	if raw.Increase != nil {
		out.Increase = *raw.Increase
	}
	return out, nil
}
