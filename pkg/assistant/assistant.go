// Package assistant turns chat messages into intents and intents into
// plain-language explanations. An LLM is used when one is configured; the
// rule-based parser and fixed templates are used otherwise, and whenever the
// LLM call fails.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"smart-wallet/pkg/client"
	"smart-wallet/pkg/metrics"
	"smart-wallet/pkg/parser"
	"smart-wallet/pkg/token"
	"smart-wallet/pkg/types"
)

const (
	ParserRules = "rules"
	ParserLLM   = "llm"
)

// Completer is the subset of an LLM client the assistant needs
type Completer interface {
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string, opts client.CompletionOptions) (string, error)
}

// Assistant parses intents and writes explanations
type Assistant struct {
	llm     Completer
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates an assistant. llm may be nil to use rules and templates only.
func New(llm Completer, logger *zap.Logger, m *metrics.Metrics) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{llm: llm, logger: logger, metrics: m}
}

// UsesLLM reports whether an LLM is configured
func (a *Assistant) UsesLLM() bool {
	return a.llm != nil
}

const parseSystemPrompt = "You are a DeFi transaction parser. Always respond with valid JSON only."

// ParseIntent returns the intent expressed by message
func (a *Assistant) ParseIntent(ctx context.Context, message string) types.Intent {
	if a.llm == nil {
		return a.parseWithRules(message)
	}

	reply, err := a.llm.CompleteWithSystem(ctx, parseSystemPrompt, parsePrompt(message), client.CompletionOptions{
		Temperature: 0.1,
		MaxTokens:   200,
	})
	if err != nil {
		a.logger.Warn("LLM intent parsing failed, using rules", zap.Error(err))
		return a.parseWithRules(message)
	}

	intent, err := decodeIntent(reply)
	if err != nil {
		a.logger.Warn("LLM returned an unusable intent, using rules", zap.Error(err), zap.String("reply", reply))
		return a.parseWithRules(message)
	}

	a.metrics.IntentParsed(string(intent.Action), ParserLLM)
	return intent
}

func (a *Assistant) parseWithRules(message string) types.Intent {
	intent := parser.ParseIntent(message)
	a.metrics.IntentParsed(string(intent.Action), ParserRules)
	return intent
}

func parsePrompt(message string) string {
	return fmt.Sprintf(`Parse this user message into a structured intent for DeFi operations:
%q

Supported actions: swap, send, stake, lend, withdraw, check_balance
Supported tokens: %s

Respond with JSON only:
{
  "action": "swap|send|stake|lend|withdraw|check_balance",
  "amount": "number or 'max'",
  "fromToken": "token symbol",
  "toToken": "token symbol (for swap)",
  "toAddress": "recipient address (for send)",
  "confidence": 0.0,
  "explanation": "brief explanation"
}`, message, strings.Join(token.Symbols(), ", "))
}

// llmIntent accepts confidence as either a number or a numeric string
type llmIntent struct {
	Action      string          `json:"action"`
	Amount      json.RawMessage `json:"amount"`
	FromToken   string          `json:"fromToken"`
	ToToken     string          `json:"toToken"`
	ToAddress   string          `json:"toAddress"`
	Confidence  json.Number     `json:"confidence"`
	Explanation string          `json:"explanation"`
}

func decodeIntent(reply string) (types.Intent, error) {
	dec := json.NewDecoder(strings.NewReader(client.StripCodeFence(reply)))
	dec.UseNumber()

	var raw llmIntent
	if err := dec.Decode(&raw); err != nil {
		return types.Intent{}, fmt.Errorf("failed to decode intent: %w", err)
	}

	action := types.Action(strings.ToLower(strings.TrimSpace(raw.Action)))
	if !action.Valid() {
		return types.Intent{}, fmt.Errorf("unknown action %q", raw.Action)
	}

	intent := types.Intent{
		Action:      action,
		Amount:      decodeAmount(raw.Amount),
		FromToken:   token.Normalize(raw.FromToken),
		Explanation: raw.Explanation,
	}
	if action == types.ActionSwap {
		intent.ToToken = token.Normalize(raw.ToToken)
	}
	if action == types.ActionSend {
		intent.ToAddress = strings.TrimSpace(raw.ToAddress)
	}

	confidence, err := raw.Confidence.Float64()
	if err != nil {
		confidence = 0.5
	}
	intent.Confidence = clamp(confidence, 0, 1)

	return intent, nil
}

func decodeAmount(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// bare JSON number
		s = string(raw)
	}
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "max", "all":
		return types.AmountMax
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
