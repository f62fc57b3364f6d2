package coach

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/julianstephens/timewise/internal/constants"
)

// Gemini generates text with Google Gemini.
type Gemini struct {
	apiKey    string
	modelName string
}

// NewGemini returns ErrNotConfigured when apiKey is empty.
func NewGemini(apiKey, modelName string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	if modelName == "" {
		modelName = constants.DefaultGeminiModel
	}
	return &Gemini{
		apiKey:    apiKey,
		modelName: modelName,
	}, nil
}

// NewGeminiCoach wires a Gemini generator into a Coach.
func NewGeminiCoach(apiKey, modelName string) (*Coach, error) {
	gen, err := NewGemini(apiKey, modelName)
	if err != nil {
		return nil, err
	}
	return New(gen), nil
}

func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.modelName)
	model.SetTemperature(req.Temperature)
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return responseText(resp), nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
