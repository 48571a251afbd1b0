package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// NewCustomer creates a customer with a generated ID
func NewCustomer(name, email, address string) *Customer {
	return &Customer{
		ID:      "c_" + uuid.NewString(),
		Name:    strings.TrimSpace(name),
		Email:   strings.TrimSpace(email),
		Address: strings.TrimSpace(address),
	}
}

// Validate returns an error if the customer is invalid
func (c *Customer) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("customer ID is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("customer name is required")
	}
	return nil
}
