package models

import "time"

// Student is the record owned by the upstream registration API. The gateway
// never persists it; field names mirror the upstream JSON exactly.
type Student struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Course    string     `json:"course"`
	CreatedBy *int       `json:"created_by,omitempty"`
	UpdatedBy *int       `json:"updated_by,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// NewStudent carries the fields required to create or update a Student.
// The validate tags back the form-level checks performed before any request
// leaves the client.
type NewStudent struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone" validate:"required"`
	Course string `json:"course" validate:"required"`
}

// StudentPage is the upstream list envelope: a status marker plus one page of
// students. No total count is exposed, so "has more" cannot be known.
type StudentPage struct {
	Status string    `json:"status"`
	Data   []Student `json:"data"`
}

// Page describes one requested slice of the student list.
type Page struct {
	Number int
	Limit  int
}

// Offset derives the upstream offset from the 1-based page number.
func (p Page) Offset() int {
	n := p.Number
	if n < 1 {
		n = 1
	}
	return (n - 1) * p.Limit
}
