package domain

import "net/http"

// Session is the caller's authenticated context. The cookies are opaque: they
// are attached to every request and never decoded here.
type Session struct {
	Cookies []*http.Cookie
	Email   string
	// Name is the employee name of the signed-in user, when already known.
	Name    string
	IsAdmin bool
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration creates an employee together with its login.
type Registration struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	DateOfJoining string `json:"dateOfJoining"`
}

// PasswordChange is the updatePassword payload.
type PasswordChange struct {
	Email       string `json:"email"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// UserDetails is what /details returns for the current session.
type UserDetails struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}
