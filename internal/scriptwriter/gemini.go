package scriptwriter

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const temperature = 0.7

type geminiGenerator struct{}

func (g *geminiGenerator) Generate(ctx context.Context, apiKey, model, prompt string, image []byte) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(image, "image/png"),
		}, genai.RoleUser),
	}
	result, err := client.Models.GenerateContent(ctx, model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](temperature),
	})
	if err != nil {
		return "", err
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		return text.String(), nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}
