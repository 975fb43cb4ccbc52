package services

import (
	"context"
	"testing"
	"time"
)

func TestSimulatedGatewayCharge(t *testing.T) {
	g := &SimulatedGateway{Delay: time.Millisecond}

	receipt, err := g.Charge(context.Background(), 59)
	if err != nil {
		t.Fatalf("charge: %v", err)
	}
	if receipt.Amount != 59 {
		t.Errorf("receipt amount = %v, want 59", receipt.Amount)
	}
	if receipt.ID == "" {
		t.Error("receipt has no ID")
	}
}

func TestSimulatedGatewayRejectsNonPositiveAmount(t *testing.T) {
	g := &SimulatedGateway{Delay: time.Millisecond}

	for _, amount := range []float64{0, -10} {
		if _, err := g.Charge(context.Background(), amount); err == nil {
			t.Errorf("charge of %v succeeded, want error", amount)
		}
	}
}

func TestSimulatedGatewayHonorsContext(t *testing.T) {
	g := &SimulatedGateway{Delay: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := g.Charge(ctx, 59)
	if err == nil {
		t.Fatal("charge succeeded on cancelled context")
	}
	if time.Since(start) > time.Second {
		t.Fatal("charge blocked for the full delay instead of aborting")
	}
}
