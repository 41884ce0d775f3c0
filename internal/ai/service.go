// Package ai relays dashboard questions to OpenAI. The assistant is a
// marketing analyst answering in Mexican Spanish; each question ships
// with a serialized snapshot of the dashboard so the model reasons
// over real numbers instead of hallucinating them.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNotConfigured signals a missing API key; the chat endpoint
// reports it as an upstream failure.
var ErrNotConfigured = errors.New("ai: OpenAI API key not configured")

const systemPrompt = `Eres un analista de marketing digital experto que trabaja para una tienda en línea de WooCommerce en México.
Respondes siempre en español mexicano, de forma clara y directa.
Analizas los datos del dashboard que se te proporcionan: ventas, pedidos, métodos de pago, clientes, campañas publicitarias y tráfico web.
Cuando des cifras monetarias usa pesos mexicanos (MXN).
Si los datos proporcionados no alcanzan para responder, dilo explícitamente en lugar de inventar números.
Sé conciso: máximo tres párrafos cortos o una lista breve.`

// Service holds the OpenAI client for dashboard chat. It keeps no
// conversation state; every question is answered fresh from the
// context the caller provides.
type Service struct {
	client *openai.Client
	model  string
}

// NewService creates the chat relay. Returns (nil, ErrNotConfigured)
// when the key is empty so the caller can degrade the endpoint.
func NewService(apiKey, model string) (*Service, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	config := openai.DefaultConfig(apiKey)
	return &Service{client: openai.NewClientWithConfig(config), model: model}, nil
}

// Ask sends one question together with the current dashboard snapshot.
// dashboardContext may be nil when no data loaded; the model is told so.
func (s *Service) Ask(ctx context.Context, question string, dashboardContext any) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", errors.New("ai: empty question")
	}

	userContent := question
	if dashboardContext != nil {
		serialized, err := json.Marshal(dashboardContext)
		if err == nil && len(serialized) > 2 {
			userContent = fmt.Sprintf("Datos actuales del dashboard:\n%s\n\nPregunta: %s", serialized, question)
		}
	} else {
		userContent = fmt.Sprintf("No hay datos del dashboard cargados en este momento.\n\nPregunta: %s", question)
	}

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userContent},
		},
		MaxTokens:   600,
		Temperature: 0.3,
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
