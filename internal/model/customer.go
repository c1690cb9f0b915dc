package model

import (
	"regexp"
	"strings"
	"time"
)

// TimeFormat is the timestamp layout stored in the database.
const TimeFormat = "2006-01-02 15:04:05"

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// Customer represents a registered customer.
type Customer struct {
	ID               int64  `json:"id" db:"id"`
	Name             string `json:"name" db:"name"`
	Email            string `json:"email,omitempty" db:"email"`
	Phone            string `json:"phone,omitempty" db:"phone"`
	Address          string `json:"address,omitempty" db:"address"`
	RegistrationDate string `json:"registrationDate" db:"registration_date"`
}

// NewCustomer creates a customer with the registration date set to now.
func NewCustomer(name, email, phone, address string) *Customer {
	return &Customer{
		Name:             name,
		Email:            email,
		Phone:            phone,
		Address:          address,
		RegistrationDate: time.Now().Format(TimeFormat),
	}
}

// Validate reports whether the customer may be persisted. The name must be
// non-empty; email and phone are optional but must match their patterns when
// present. Spaces in the phone number are ignored.
func (c *Customer) Validate() bool {
	if strings.TrimSpace(c.Name) == "" {
		return false
	}
	if c.Email != "" && !emailPattern.MatchString(c.Email) {
		return false
	}
	if c.Phone != "" && !phonePattern.MatchString(strings.ReplaceAll(c.Phone, " ", "")) {
		return false
	}
	return true
}

// Record returns the customer as a flat map keyed by column name.
func (c *Customer) Record() map[string]any {
	return map[string]any{
		"id":                c.ID,
		"name":              c.Name,
		"email":             c.Email,
		"phone":             c.Phone,
		"address":           c.Address,
		"registration_date": c.RegistrationDate,
	}
}
