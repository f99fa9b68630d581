package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type ManagerConfig struct {
	Model         string
	EmbedModel    string
	TimeoutSec    int
	MaxInputChars int
}

// Manager wraps one provider with the model names and timeouts this service
// uses for embedding and chat response generation.
type Manager struct {
	provider IProvider
	cfg      ManagerConfig
}

func NewManager(provider IProvider, cfg ManagerConfig) *Manager {
	return &Manager{provider: provider, cfg: cfg}
}

func (m *Manager) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if m.provider == nil {
		return nil, ErrUnavailable
	}
	if m.cfg.MaxInputChars > 0 {
		if runes := []rune(text); len(runes) > m.cfg.MaxInputChars {
			text = string(runes[:m.cfg.MaxInputChars])
		}
	}
	if m.cfg.TimeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(m.cfg.TimeoutSec)*time.Second)
		defer cancel()
	}
	return m.provider.Embed(ctx, m.cfg.EmbedModel, text, taskType)
}

// Respond generates the chat answer for one user message, grounded in the
// retrieved document context. An empty context is allowed; the model is told
// so instead of being handed fabricated material.
func (m *Manager) Respond(ctx context.Context, message string, contextText string) (string, error) {
	if m.provider == nil {
		return "", ErrUnavailable
	}
	snippet := strings.TrimSpace(contextText)
	if snippet == "" {
		snippet = "(no matching document content)"
	}
	prompt := fmt.Sprintf(`You are a document assistant.
Answer the question using only the CONTEXT below.
- If the context does not contain the answer, say so briefly.
- Output plain text only.

CONTEXT:
%s

QUESTION:
%s`, snippet, message)
	return m.generateText(ctx, prompt)
}

func (m *Manager) generateText(ctx context.Context, prompt string) (string, error) {
	if m.cfg.TimeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(m.cfg.TimeoutSec)*time.Second)
		defer cancel()
	}
	resp, err := m.provider.Generate(ctx, m.cfg.Model, prompt)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp)
	if text == "" {
		return "", fmt.Errorf("empty ai response")
	}
	return text, nil
}

func (m *Manager) MaxInputChars() int {
	return m.cfg.MaxInputChars
}

func (m *Manager) EmbeddingModelName() string {
	return m.cfg.EmbedModel
}
