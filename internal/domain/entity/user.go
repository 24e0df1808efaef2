package entity

import "time"

// Operator roles. Only admins may resolve approval requests.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// User is an operator or reviewer of the conversational interface.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Name         string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
