package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/Endawoke47/Neo-sub000/config"
	"github.com/Endawoke47/Neo-sub000/model"
)

// InferenceService delegates part of term extraction to a remote
// OpenAI-compatible endpoint. It implements the engine's TermAssist
// interface; when unconfigured it reports disabled and the pipeline relies
// on local extraction alone.
type InferenceService struct {
	client *openai.Client
	config *config.InferenceConfig
}

const suggestPrompt = `Extract structured terms from the contract text below.
Respond with a JSON array only. Each element:
{"category":"party|date|amount|obligation|right|condition|penalty|deadline","value":"...","start":0,"end":0,"confidence":0.0}
start and end are byte offsets into the text. Do not invent terms that are not present.

Contract text:
`

func NewInferenceService(cfg *config.InferenceConfig) *InferenceService {
	svc := &InferenceService{config: cfg}
	if cfg.Provider == "" || cfg.APIKey == "" {
		return svc
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	svc.client = openai.NewClientWithConfig(clientConfig)
	return svc
}

// Enabled reports whether a remote endpoint is configured.
func (s *InferenceService) Enabled() bool {
	return s.client != nil
}

// SuggestTerms asks the remote model for additional terms. The caller
// treats any error, including timeout, as a degraded-but-successful
// extraction.
func (s *InferenceService) SuggestTerms(ctx context.Context, text string) ([]model.ExtractedTerm, error) {
	if s.client == nil {
		return nil, nil
	}

	timeout := time.Duration(s.config.TimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatModel := s.config.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You extract structured entities from legal contracts. Output JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: suggestPrompt + text,
			},
		},
		MaxTokens:   s.config.MaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("inference returned no choices")
	}

	return parseSuggestedTerms(resp.Choices[0].Message.Content)
}

type suggestedTerm struct {
	Category   string  `json:"category"`
	Value      string  `json:"value"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

func parseSuggestedTerms(content string) ([]model.ExtractedTerm, error) {
	// Models sometimes wrap JSON in a code fence.
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var suggested []suggestedTerm
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &suggested); err != nil {
		return nil, fmt.Errorf("failed to parse inference response: %w", err)
	}

	valid := map[model.TermCategory]bool{
		model.TermParty: true, model.TermDate: true, model.TermAmount: true,
		model.TermObligation: true, model.TermRight: true, model.TermCondition: true,
		model.TermPenalty: true, model.TermDeadline: true,
	}

	var terms []model.ExtractedTerm
	for _, st := range suggested {
		cat := model.TermCategory(strings.ToLower(st.Category))
		if !valid[cat] || st.Value == "" {
			continue
		}
		confidence := st.Confidence
		if confidence <= 0 || confidence > 1 {
			confidence = 0.5
		}
		terms = append(terms, model.ExtractedTerm{
			Category:   cat,
			Value:      st.Value,
			Span:       model.Span{Start: st.Start, End: st.End},
			Confidence: confidence,
		})
	}
	return terms, nil
}
