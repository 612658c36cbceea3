package models

// DefaultStudentRoleID is the role assigned to self-registered accounts by
// the upstream API.
const DefaultStudentRoleID = 2

// RegisterRequest is the public account registration payload.
type RegisterRequest struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// UpstreamRegisterRequest is the payload forwarded to the upstream API,
// augmented with the default role.
type UpstreamRegisterRequest struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	RoleID    int     `json:"role_id"`
}

// AccountUser is the upstream's representation of a registered account.
type AccountUser struct {
	ID        int     `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	RoleID    int     `json:"role_id"`
	IsActive  bool    `json:"is_active"`
}

// LoginRequest authenticates against the upstream API.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned after a successful sign-in. SessionToken is the
// signed token the caller presents on subsequent requests; the upstream
// access token never leaves the session record.
type LoginResponse struct {
	User         AccountUser `json:"user"`
	Role         string      `json:"role"`
	SessionToken string      `json:"sessionToken"`
	ExpiresAt    string      `json:"expiresAt"`
}
