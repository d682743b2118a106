package domain

import "time"

// User is a shop account. The phone number is the login identity; email
// and address are optional profile data used to prefill checkout forms.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
