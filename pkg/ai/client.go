// pkg/ai/client.go

package ai

import (
	"context"
	"fmt"
)

// Client writes a short synopsis for an anime title. It never fails: provider
// errors come back as a placeholder text.
type Client interface {
	Describe(ctx context.Context, title string) string
}

const promptTemplate = "Расскажи краткое описание аниме %s."

func renderPrompt(title string) string { return fmt.Sprintf(promptTemplate, title) }

// Placeholder is the text shown instead of a description when generation fails.
func Placeholder(err error) string {
	return fmt.Sprintf("⚠️ Ошибка генерации описания: %v", err)
}
