package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Receipt is the proof of a successful charge.
type Receipt struct {
	ID     string    `json:"id"`
	Amount float64   `json:"amount"`
	PaidAt time.Time `json:"paid_at"`
}

// PaymentError is returned when a charge cannot be completed.
type PaymentError struct {
	Reason string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed: %s", e.Reason)
}

// PaymentGateway charges subscription fees. The platform ships with a
// simulated implementation; the interface exists so tests can inject
// failures and so a real processor can be dropped in later.
type PaymentGateway interface {
	Charge(ctx context.Context, amount float64) (*Receipt, error)
}

// SimulatedGateway approves every charge after a fixed processing delay.
// Cancelling the context aborts the charge instead of letting it land late.
type SimulatedGateway struct {
	Delay time.Duration
}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{Delay: 2 * time.Second}
}

func (g *SimulatedGateway) Charge(ctx context.Context, amount float64) (*Receipt, error) {
	if amount <= 0 {
		return nil, &PaymentError{Reason: "amount must be positive"}
	}

	timer := time.NewTimer(g.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, &PaymentError{Reason: ctx.Err().Error()}
	case <-timer.C:
	}

	return &Receipt{
		ID:     uuid.NewString(),
		Amount: amount,
		PaidAt: time.Now(),
	}, nil
}
