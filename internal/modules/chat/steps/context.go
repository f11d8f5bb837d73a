package steps

import (
	"fmt"
	"strings"

	types "github.com/yungbote/partnerhub-backend/internal/domain"
)

const (
	MatchThreshold = 0.7
	MatchCount     = 5

	MaxTokens   = 500
	Temperature = 0.3

	NoResponse = "No response generated"
)

const SystemInstruction = `You are a helpful assistant for a partner dashboard. Answer the user's question using only the provided context.
If the context does not contain the information needed, say so plainly. Do not invent facts.
If any part of your answer is uncertain or only partially supported by the context, point that out.`

const noContextNotice = "No relevant context is available for this question. Tell the user you could not find supporting information rather than guessing."

// BuildContext renders matches in the order given, one "Document <id>:" block each, separated by
// a blank line. No matches yields "".
func BuildContext(matches []types.DocumentMatch) string {
	if len(matches) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, fmt.Sprintf("Document %s:\n%s", m.ID, strings.TrimSpace(m.Content)))
	}
	return strings.Join(blocks, "\n\n")
}

// BuildUserPrompt embeds the context block (or the no-context notice) ahead of the question.
func BuildUserPrompt(contextBlock, question string) string {
	var b strings.Builder
	if contextBlock == "" {
		b.WriteString(noContextNotice)
	} else {
		b.WriteString("Context:\n")
		b.WriteString(contextBlock)
	}
	b.WriteString("\n\nQuestion: ")
	b.WriteString(strings.TrimSpace(question))
	return b.String()
}
