package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"therapia/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiExplainer generates match rationale via the Gemini API.
type GeminiExplainer struct {
	model *genai.GenerativeModel
}

// NewGeminiExplainer creates a Gemini-backed explanation provider.
func NewGeminiExplainer(ctx context.Context, apiKey string) (*GeminiExplainer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel("models/gemini-1.5-pro")
	return &GeminiExplainer{model: model}, nil
}

// Explain asks the model why each candidate fits the user's stated need and
// parses the strict JSON contract. Any deviation from the contract is an
// error; the caller degrades to an unexplained ranking.
func (g *GeminiExplainer) Explain(ctx context.Context, profiles []models.TherapistProfile, need string) ([]Explanation, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(buildExplainPrompt(profiles, need)))
	if err != nil {
		return nil, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return parseExplanations(sb.String())
}

// buildExplainPrompt renders the candidate roster and the user's need into a
// prompt that demands a JSON-only answer.
func buildExplainPrompt(profiles []models.TherapistProfile, need string) string {
	var sb strings.Builder
	sb.WriteString("You help people understand why a therapist may fit their needs.\n")
	sb.WriteString("For each therapist below, write one short sentence explaining the fit ")
	sb.WriteString("with the user's statement. Respond with ONLY a JSON array, no prose, ")
	sb.WriteString("no code fences, of objects: {\"therapistId\": string, \"explanation\": string}.\n\n")
	sb.WriteString("User statement: ")
	sb.WriteString(need)
	sb.WriteString("\n\nTherapists:\n")
	for _, p := range profiles {
		sb.WriteString(fmt.Sprintf("- id=%s name=%s specialties=%s languages=%s bio=%s\n",
			p.ID, p.Name, strings.Join(p.Specialties, ","), strings.Join(p.Languages, ","), p.Bio))
	}
	return sb.String()
}

// parseExplanations decodes the model output against the response contract.
// Code fences are tolerated since models add them despite instructions.
func parseExplanations(raw string) ([]Explanation, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var explanations []Explanation
	if err := json.Unmarshal([]byte(trimmed), &explanations); err != nil {
		return nil, fmt.Errorf("malformed explanation payload: %w", err)
	}
	for _, e := range explanations {
		if e.TherapistID == "" || e.Text == "" {
			return nil, fmt.Errorf("malformed explanation payload: missing id or text")
		}
	}
	return explanations, nil
}
