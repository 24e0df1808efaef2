package dto

// RegisterRequest creates an operator account.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"` // admin | operator; defaults to operator
}

// LoginRequest authenticates an operator.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// LoginResponse carries the signed token plus the user view.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
