package guardrails

import (
	"context"
	"fmt"
	"strings"

	"github.com/stepwise/agentcore/pkg/models"
)

// KeywordInputGuardrail trips when any configured phrase appears in the
// concatenated text of the message list, case-insensitively. Typically
// registered as a sequential guardrail so a forbidden request never reaches
// the model.
func KeywordInputGuardrail(name string, phrases []string) *InputGuardrail {
	lowered := make([]string, len(phrases))
	for i, p := range phrases {
		lowered[i] = strings.ToLower(p)
	}

	return NewInputGuardrail(name, func(_ context.Context, _ string, messages []*models.Message) (Output, error) {
		var text strings.Builder
		for _, m := range messages {
			text.WriteString(m.Content)
			text.WriteByte(' ')
		}
		haystack := strings.ToLower(text.String())

		for _, p := range lowered {
			if p != "" && strings.Contains(haystack, p) {
				return Trip(fmt.Sprintf("matched phrase %q", p)), nil
			}
		}
		return Pass(), nil
	})
}

// KeywordOutputGuardrail is the output-side counterpart of
// KeywordInputGuardrail: it trips when a forbidden phrase appears in the
// final answer instead of the inbound request.
func KeywordOutputGuardrail(name string, phrases []string) *OutputGuardrail {
	lowered := make([]string, len(phrases))
	for i, p := range phrases {
		lowered[i] = strings.ToLower(p)
	}

	return NewOutputGuardrail(name, func(_ context.Context, _ string, output string) (Output, error) {
		haystack := strings.ToLower(output)
		for _, p := range lowered {
			if p != "" && strings.Contains(haystack, p) {
				return Trip(fmt.Sprintf("matched phrase %q", p)), nil
			}
		}
		return Pass(), nil
	})
}

// MaxLengthOutputGuardrail trips when the final answer exceeds maxChars.
func MaxLengthOutputGuardrail(name string, maxChars int) *OutputGuardrail {
	return NewOutputGuardrail(name, func(_ context.Context, _ string, output string) (Output, error) {
		if maxChars > 0 && len(output) > maxChars {
			return Trip(fmt.Sprintf("output length %d exceeds budget %d", len(output), maxChars)), nil
		}
		return PassWithInfo(fmt.Sprintf("output length %d", len(output))), nil
	})
}
