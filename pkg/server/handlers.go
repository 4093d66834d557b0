package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"smart-wallet/pkg/pricing"
	"smart-wallet/pkg/token"
	"smart-wallet/pkg/types"
	"smart-wallet/pkg/validate"
	"smart-wallet/pkg/wallet"
)

type parseIntentRequest struct {
	Message string `json:"message"`
}

type generateTransactionRequest struct {
	Intent      *types.Intent       `json:"intent"`
	UserBalance decimal.NullDecimal `json:"userBalance"`
}

type quoteRequest struct {
	FromToken string           `json:"fromToken"`
	ToToken   string           `json:"toToken"`
	Amount    types.FlexString `json:"amount"`
}

type addressRequest struct {
	Address string `json:"address"`
}

type executeRequest struct {
	Transaction *types.Transaction  `json:"transaction"`
	UserBalance decimal.NullDecimal `json:"userBalance"`
}

type tokenInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
}

// decodeOrReject decodes the body and answers malformed JSON with 400.
// An empty body is treated as an empty object so the field checks report it.
func (s *Server) decodeOrReject(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := decodeBody(r, v); err != nil && !errors.Is(err, errEmptyBody) {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

func normalizeIntent(intent *types.Intent) {
	if intent.FromToken != "" {
		intent.FromToken = token.Normalize(intent.FromToken)
	}
	if intent.ToToken != "" {
		intent.ToToken = token.Normalize(intent.ToToken)
	}
	intent.Amount = strings.TrimSpace(intent.Amount)
	if strings.EqualFold(intent.Amount, "all") || strings.EqualFold(intent.Amount, types.AmountMax) {
		intent.Amount = types.AmountMax
	}
}

// handleParseIntent turns a natural-language message into an intent
func (s *Server) handleParseIntent(w http.ResponseWriter, r *http.Request) {
	var req parseIntentRequest
	if !s.decodeOrReject(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	intent := s.deps.Assistant.ParseIntent(r.Context(), req.Message)

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"intent":  intent,
	})
}

// handleGenerateTransaction validates an intent and builds the confirmation preview
func (s *Server) handleGenerateTransaction(w http.ResponseWriter, r *http.Request) {
	var req generateTransactionRequest
	if !s.decodeOrReject(w, r, &req) {
		return
	}
	if req.Intent == nil {
		s.writeError(w, http.StatusBadRequest, "Intent is required")
		return
	}

	intent := *req.Intent
	normalizeIntent(&intent)

	balance := s.deps.DefaultBalance
	if req.UserBalance.Valid {
		balance = req.UserBalance.Decimal
	}

	result := validate.Transaction(intent, balance)
	if !result.Valid {
		s.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"errors":  result.Errors,
		})
		return
	}

	var quote *types.Quote
	if intent.Action == types.ActionSwap {
		amount := intent.Amount
		if amount == types.AmountMax {
			amount = balance.String()
		}
		q, err := s.deps.Quoter.Quote(r.Context(), intent.FromToken, intent.ToToken, amount)
		if err != nil {
			s.logger.Error("Quote generation failed", zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, "Failed to generate transaction")
			return
		}
		quote = q
	}

	risk := validate.Risk(intent, quote, balance)

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"transaction": types.Transaction{
			Intent:       intent,
			Quote:        quote,
			Explanation:  s.deps.Assistant.Explain(r.Context(), intent, quote),
			EstimatedGas: pricing.GasEstimate,
			Risk:         &risk,
			Timestamp:    time.Now().UTC(),
		},
	})
}

// handlePrice returns the USD price of a token
func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	symbol := token.Normalize(mux.Vars(r)["token"])

	price, err := s.deps.Pricer.Price(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, pricing.ErrUnsupportedToken) {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Token %s not supported", symbol))
			return
		}
		s.logger.Error("Price fetch failed", zap.String("token", symbol), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to fetch price")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"token":     price.Symbol,
		"price":     price.USD.InexactFloat64(),
		"source":    price.Source,
		"timestamp": price.FetchedAt.UTC(),
	})
}

// handleQuote computes a swap quote
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if !s.decodeOrReject(w, r, &req) {
		return
	}
	if req.FromToken == "" || req.ToToken == "" || req.Amount == "" {
		s.writeError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	quote, err := s.deps.Quoter.Quote(r.Context(), req.FromToken, req.ToToken, string(req.Amount))
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrUnsupportedToken), errors.Is(err, pricing.ErrInvalidAmount):
			s.writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("Quote generation failed", zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, "Failed to generate quote")
		}
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"quote":   quote,
	})
}

// handleValidateAddress checks the format and checksum of an address
func (s *Server) handleValidateAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if !s.decodeOrReject(w, r, &req) {
		return
	}
	if req.Address == "" {
		s.writeError(w, http.StatusBadRequest, "Address is required")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"valid":       validate.Address(req.Address),
		"checksummed": validate.Checksummed(req.Address),
	})
}

// handleBalance reads the native balance of an address from the configured node
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	if s.deps.Bridge == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Wallet provider not configured")
		return
	}

	balance, err := s.deps.Bridge.Balance(r.Context(), address)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrNoProvider):
			s.writeError(w, http.StatusServiceUnavailable, "Wallet provider not configured")
		case errors.Is(err, wallet.ErrInvalidAddress):
			s.writeError(w, http.StatusBadRequest, "Invalid address")
		default:
			s.logger.Error("Balance fetch failed", zap.String("address", address), zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, "Failed to fetch balance")
		}
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"address": address,
		"balance": balance.String(),
		"symbol":  "ETH",
	})
}

// handleExecute simulates executing a previously generated transaction
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if !s.decodeOrReject(w, r, &req) {
		return
	}
	if req.Transaction == nil {
		s.writeError(w, http.StatusBadRequest, "Transaction is required")
		return
	}

	tx := *req.Transaction
	normalizeIntent(&tx.Intent)

	balance := s.deps.DefaultBalance
	if req.UserBalance.Valid {
		balance = req.UserBalance.Decimal
	}

	result := validate.Transaction(tx.Intent, balance)
	if !result.Valid {
		s.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"errors":  result.Errors,
		})
		return
	}

	rec, err := s.deps.Executor.Execute(r.Context(), tx)
	if err != nil {
		if errors.Is(err, wallet.ErrNotExecutable) {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Action %s cannot be executed", tx.Intent.Action))
			return
		}
		s.logger.Error("Execution failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to execute transaction")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"execution": rec,
	})
}

// handleTransactions lists simulated executions, newest first
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	list := []types.Execution{}
	if s.deps.History != nil {
		list = s.deps.History.List()
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"transactions": list,
		"count":        len(list),
	})
}

// handleTokens lists the supported tokens
func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	all := token.All()
	tokens := make([]tokenInfo, 0, len(all))
	for _, t := range all {
		tokens = append(tokens, tokenInfo{Symbol: t.Symbol, Name: t.Name, Decimals: t.Decimals})
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"tokens":  tokens,
	})
}

// handleHealth returns service status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "OK",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.started).Seconds(),
		"llm":       s.deps.Assistant != nil && s.deps.Assistant.UsesLLM(),
	})
}
