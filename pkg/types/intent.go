package types

import "time"

// Action is the kind of operation a user asked for
type Action string

const (
	ActionSwap         Action = "swap"
	ActionSend         Action = "send"
	ActionStake        Action = "stake"
	ActionLend         Action = "lend"
	ActionWithdraw     Action = "withdraw"
	ActionCheckBalance Action = "check_balance"
	ActionUnknown      Action = "unknown"
)

// AmountMax is the amount value meaning "everything I hold"
const AmountMax = "max"

// Valid reports whether a is one of the known actions
func (a Action) Valid() bool {
	switch a {
	case ActionSwap, ActionSend, ActionStake, ActionLend, ActionWithdraw, ActionCheckBalance, ActionUnknown:
		return true
	}
	return false
}

// MovesValue reports whether the action transfers tokens and so needs an amount and a token
func (a Action) MovesValue() bool {
	switch a {
	case ActionSwap, ActionSend, ActionStake, ActionLend, ActionWithdraw:
		return true
	}
	return false
}

// Intent is the structured form of a natural-language request
type Intent struct {
	Action      Action  `json:"action"`
	Amount      string  `json:"amount,omitempty"`
	FromToken   string  `json:"fromToken,omitempty"`
	ToToken     string  `json:"toToken,omitempty"`   // swap only
	ToAddress   string  `json:"toAddress,omitempty"` // send only
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// Quote is an estimated swap result
type Quote struct {
	InputAmount  string   `json:"inputAmount"`
	OutputAmount string   `json:"outputAmount"`
	FromToken    string   `json:"fromToken"`
	ToToken      string   `json:"toToken"`
	PriceImpact  string   `json:"priceImpact"`
	GasEstimate  string   `json:"gasEstimate"`
	Route        []string `json:"route"`
}

// SwapRequest is the parsed form of the CLI quote grammar
type SwapRequest struct {
	Amount      string
	SourceToken string
	DestToken   string
}

// RiskLevel grades a transaction preview
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Risk summarises the concerns raised about a transaction
type Risk struct {
	Level    RiskLevel `json:"riskLevel"`
	Risks    []string  `json:"risks"`
	Warnings []string  `json:"warnings"`
}

// ValidationResult holds the outcome of validating an intent
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Transaction is the confirmation preview shown before execution
type Transaction struct {
	Intent       Intent    `json:"intent"`
	Quote        *Quote    `json:"quote"`
	Explanation  string    `json:"explanation"`
	EstimatedGas string    `json:"estimatedGas"`
	Risk         *Risk     `json:"risk,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// ExecutionStatus is the state of a simulated execution
type ExecutionStatus string

const (
	ExecutionCompleted ExecutionStatus = "completed"
	ExecutionFailed    ExecutionStatus = "failed"
)

// Execution records a simulated transaction
type Execution struct {
	ID           string          `json:"id"`
	Hash         string          `json:"hash"`
	Intent       Intent          `json:"intent"`
	Quote        *Quote          `json:"quote,omitempty"`
	Status       ExecutionStatus `json:"status"`
	OutputAmount string          `json:"outputAmount,omitempty"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}
