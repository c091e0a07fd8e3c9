// Package payment abstracts the payment provider. The real integration
// lives behind Provider; the stub mints opaque references and trusts the
// callback to settle them.
package payment

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"craftstore/internal/models"
)

var ErrUnknownReference = errors.New("unknown payment reference")

// Redirect is where the buyer is sent to pay.
type Redirect struct {
	Reference  string `json:"reference"`
	PaymentURL string `json:"paymentUrl"`
}

type Provider interface {
	// Begin opens a payment for the purchase and returns the redirect.
	Begin(purchase models.Purchase) (Redirect, error)
	// Resolve maps a callback reference back to the purchase ID.
	Resolve(reference string) (int, error)
}

// Stub is an in-process Provider for environments without a real
// payment system wired up.
type Stub struct {
	mu         sync.Mutex
	references map[string]int
}

func NewStub() *Stub {
	return &Stub{references: make(map[string]int)}
}

func (s *Stub) Begin(purchase models.Purchase) (Redirect, error) {
	ref := uuid.New().String()
	s.mu.Lock()
	s.references[ref] = purchase.ID
	s.mu.Unlock()
	return Redirect{
		Reference:  ref,
		PaymentURL: fmt.Sprintf("/payment/%s", ref),
	}, nil
}

func (s *Stub) Resolve(reference string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.references[reference]
	if !ok {
		return 0, ErrUnknownReference
	}
	return id, nil
}
