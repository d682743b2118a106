package payment

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// OutcomeSource decides how a confirmation attempt resolves.
type OutcomeSource interface {
	Outcome() (captured bool, reason string)
}

// RandomOutcome captures most attempts and refuses the rest with a
// canned reason, mirroring a flaky real-world acquirer.
type RandomOutcome struct{}

var refusalReasons = []string{
	"insufficient funds",
	"card expired",
	"card declined by issuer",
	"suspected fraud",
	"processing error",
}

func (RandomOutcome) Outcome() (bool, string) {
	if rand.Intn(100) < 95 {
		return true, ""
	}
	return false, refusalReasons[rand.Intn(len(refusalReasons))]
}

// AlwaysCapture confirms every attempt. Useful for local development.
type AlwaysCapture struct{}

func (AlwaysCapture) Outcome() (bool, string) { return true, "" }

// SimulatedGateway keeps intents in memory and resolves confirmations
// through an injectable OutcomeSource.
type SimulatedGateway struct {
	outcomes OutcomeSource

	mu      sync.Mutex
	intents map[string]*Intent
}

func NewSimulatedGateway(outcomes OutcomeSource) *SimulatedGateway {
	return &SimulatedGateway{
		outcomes: outcomes,
		intents:  make(map[string]*Intent),
	}
}

func (g *SimulatedGateway) CreateIntent(_ context.Context, amount int64, currency string, _ map[string]string) (*Intent, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	id := fmt.Sprintf("pi_%s", uuid.NewString())
	intent := &Intent{
		ID:           id,
		ClientSecret: fmt.Sprintf("%s_secret_%s", id, uuid.NewString()),
		Amount:       amount,
		Currency:     currency,
	}

	g.mu.Lock()
	g.intents[id] = intent
	g.mu.Unlock()

	return intent, nil
}

func (g *SimulatedGateway) Confirm(_ context.Context, intentID string) (*ConfirmResult, error) {
	g.mu.Lock()
	_, ok := g.intents[intentID]
	g.mu.Unlock()
	if !ok {
		return nil, ErrIntentNotFound
	}

	captured, reason := g.outcomes.Outcome()
	return &ConfirmResult{Captured: captured, Reason: reason}, nil
}
