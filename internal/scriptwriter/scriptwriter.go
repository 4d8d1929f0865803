package scriptwriter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/deck2video/internal/models"
)

// FallbackScript replaces a script that could not be generated
const FallbackScript = "Unable to generate script for this slide. Please edit manually."

// ErrNoAPIKeys is returned when no Gemini key is configured
var ErrNoAPIKeys = errors.New("no Gemini API keys configured (set GEMINI_API_KEYS or GEMINI_API_KEY)")

const narratorPrompt = `You are a professional presentation narrator. Analyze this slide image and create a natural, engaging script for a video narration.

Guidelines:
- Write 2-3 sentences that would take about 10-15 seconds to speak
- Use conversational tone suitable for video narration
- Focus on the key information visible in the slide
- Don't mention "this slide" or "as you can see" - speak directly about the content
- If there's text, summarize and expand on it naturally
- If there are charts/graphs, explain the key insights
- Keep it engaging and professional

Return only the script text, no additional formatting or explanations.`

func (w *implWriter) GenerateAll(ctx context.Context, slides []models.Slide) ([]models.Slide, error) {
	if len(w.apiKeys) == 0 {
		return nil, ErrNoAPIKeys
	}

	out := make([]models.Slide, len(slides))
	copy(out, slides)

	successCount := 0
	failCount := 0

	for i := range out {
		if out[i].Placeholder {
			continue
		}
		if err := w.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		w.logger.Info(ctx, "[%d/%d] Generating script: %s", i+1, len(out), out[i].ID)

		script, err := w.callGemini(ctx, out[i].Image)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			w.logger.Error(ctx, "Failed to generate script for %s: %v", out[i].ID, err)
			out[i].Script = FallbackScript
			failCount++
			continue
		}

		out[i].Script = script
		successCount++
	}

	w.logger.Info(ctx, "Scripts complete: %d success, %d failed", successCount, failCount)
	return out, nil
}

// callGemini sends one slide image and returns the trimmed script.
// Rotates API keys on 429 / quota errors.
func (w *implWriter) callGemini(ctx context.Context, image []byte) (string, error) {
	attempts := len(w.apiKeys)
	var lastErr error

	for range attempts {
		idx, key := w.key()

		text, err := w.generator.Generate(ctx, key, w.model, narratorPrompt, image)
		if err != nil {
			if isQuotaError(err) {
				w.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				w.rotateKey(idx)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			return "", fmt.Errorf("empty script returned")
		}
		return text, nil
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (w *implWriter) key() (int, string) {
	w.keyMu.Lock()
	defer w.keyMu.Unlock()
	return w.currentKey, w.apiKeys[w.currentKey]
}

// rotateKey advances past idx unless another caller already did
func (w *implWriter) rotateKey(idx int) {
	w.keyMu.Lock()
	defer w.keyMu.Unlock()
	if w.currentKey == idx {
		w.currentKey = (w.currentKey + 1) % len(w.apiKeys)
	}
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
