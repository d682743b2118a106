package domain

import (
	"errors"
	"strings"
)

var ErrShippingIncomplete = errors.New("shipping name, phone and address are required")

type ShippingInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address"`
	Notes   string `json:"notes,omitempty"`
}

// Validate enforces the progression invariant: the checkout must not
// advance past the shipping step without name, phone and address.
func (s *ShippingInfo) Validate() error {
	if strings.TrimSpace(s.Name) == "" ||
		strings.TrimSpace(s.Phone) == "" ||
		strings.TrimSpace(s.Address) == "" {
		return ErrShippingIncomplete
	}
	return nil
}
