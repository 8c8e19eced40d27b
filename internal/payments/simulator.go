// Package payments defines the authorization port and its deterministic
// stand-in for a real payment network.
package payments

import (
	"context"

	"github.com/jcmexdev/checkout-core/internal/paycrypt"
)

// Outcome is the caller-supplied selector that drives the simulated
// authorization result. Any unmapped value authorizes.
type Outcome int

const (
	OutcomeApproved     Outcome = 1
	OutcomeDeclined     Outcome = 2
	OutcomeGatewayError Outcome = 3
)

// Reason codes reported on failed authorizations.
const (
	CodeTransactionDeclined = "TRANSACTION_DECLINED"
	CodeGatewayFailure      = "GATEWAY_FAILURE"
)

// Result is the outcome of a single authorization attempt. LastFour is set
// only when Approved.
type Result struct {
	Approved bool
	LastFour string
	Code     string
	Reason   string
}

// Authorizer is the gateway port. The pipeline depends on this interface so
// the simulator can be swapped for a real network client without touching
// the rest of the flow.
type Authorizer interface {
	Authorize(ctx context.Context, total float64, card paycrypt.CardDetails, outcome Outcome) (Result, error)
}

// Simulator authorizes deterministically based on the outcome selector.
type Simulator struct{}

func NewSimulator() *Simulator {
	return &Simulator{}
}

func (s *Simulator) Authorize(_ context.Context, _ float64, card paycrypt.CardDetails, outcome Outcome) (Result, error) {
	switch outcome {
	case OutcomeDeclined:
		return Result{Code: CodeTransactionDeclined, Reason: "Transaction declined."}, nil
	case OutcomeGatewayError:
		return Result{Code: CodeGatewayFailure, Reason: "Gateway failure."}, nil
	default:
		return Result{Approved: true, LastFour: card.LastFour()}, nil
	}
}
