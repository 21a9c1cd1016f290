package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// LoginRequest represents the credentials for the OAuth2 password grant.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required"`
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Applicant is the applicant profile attached to a user.
type Applicant struct {
	FullName    string `json:"full_name,omitempty"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	IsPremium   bool   `json:"is_premium"`
}

// User represents the authenticated user returned by the current-user endpoint.
type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	FirstName string     `json:"first_name,omitempty"`
	LastName  string     `json:"last_name,omitempty"`
	Email     string     `json:"email,omitempty"`
	Avatar    string     `json:"avatar,omitempty"`
	Role      string     `json:"role"`
	Recruiter *Recruiter `json:"recruiter,omitempty"`
	Applicant *Applicant `json:"applicant,omitempty"`
}

// ListRole maps the backend role (APPLICANT, RECRUITER) to the job list Role.
// Unknown roles see the applicant list.
func (u *User) ListRole() Role {
	if u != nil && strings.EqualFold(u.Role, string(RoleRecruiter)) {
		return RoleRecruiter
	}
	return RoleApplicant
}

// DisplayName returns the best human-readable name for the user.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Recruiter != nil && u.Recruiter.CompanyName != "" {
		return u.Recruiter.CompanyName
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}
