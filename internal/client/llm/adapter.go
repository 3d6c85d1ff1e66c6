package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Adapter bounds every completion with a timeout and exposes the two
// structured operations the assistant needs: label classification and
// object extraction.
type Adapter struct {
	client  Client
	timeout time.Duration
}

func NewAdapter(client Client, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Adapter{client: client, timeout: timeout}
}

// Complete returns the raw completion for prompt.
func (a *Adapter) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.client.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to complete prompt: %w", err)
	}
	return text, nil
}

// Extract completes prompt and recovers the JSON objects in the answer.
// Callers must validate every object; the answer is untrusted.
func (a *Adapter) Extract(ctx context.Context, prompt string) ([]json.RawMessage, error) {
	text, err := a.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseObjects(text)
}

// Classify asks for exactly one of labels and returns the normalized answer.
// The answer is not guaranteed to be a member of labels.
func (a *Adapter) Classify(ctx context.Context, text string, labels []string) (string, error) {
	answer, err := a.Complete(ctx, classifyPrompt(text, labels))
	if err != nil {
		return "", err
	}
	return normalizeLabel(answer), nil
}

func classifyPrompt(text string, labels []string) string {
	var sb strings.Builder
	sb.WriteString("Clasifica el siguiente mensaje de un usuario de un asistente de finanzas personales.\n")
	sb.WriteString("Responde SOLO con una de estas etiquetas, sin texto adicional:\n")
	for _, l := range labels {
		sb.WriteString("- ")
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	sb.WriteString("\nMensaje: \"")
	sb.WriteString(text)
	sb.WriteString("\"\nEtiqueta:")
	return sb.String()
}

func normalizeLabel(answer string) string {
	answer = stripFence(answer)
	if line, _, ok := strings.Cut(answer, "\n"); ok {
		answer = line
	}
	answer = strings.Trim(strings.TrimSpace(answer), "\"'`.-* ")
	return strings.ToLower(answer)
}
