package dto

import (
	"strings"

	"github.com/hugh/go-planner/internal/api/validation"
	"github.com/hugh/go-planner/internal/auth"
	"github.com/hugh/go-planner/internal/tenant"
)

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	CompanyName string `json:"company_name,omitempty"`
}

func (r RegisterRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Username == "" {
		errors["username"] = "Username is required"
	} else if !validation.IsValidUsername(r.Username) {
		errors["username"] = "Username must be 3-50 letters, digits, dots, dashes or underscores"
	}
	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Invalid email format"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if ok, msg := validation.IsValidPassword(r.Password); !ok {
		errors["password"] = msg
	}
	if r.Role == "" {
		errors["role"] = "Role is required"
	} else if _, err := tenant.ParseRole(r.Role); err != nil {
		errors["role"] = "Role must be one of Admin, Project Manager, Team Member"
	}

	return errors
}

func (r RegisterRequest) Input() auth.RegisterInput {
	return auth.RegisterInput{
		Username:    strings.TrimSpace(r.Username),
		Email:       strings.ToLower(strings.TrimSpace(r.Email)),
		Password:    r.Password,
		Role:        r.Role,
		CompanyName: sanitize(strings.TrimSpace(r.CompanyName)),
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

func (r LoginRequest) Input() auth.LoginInput {
	return auth.LoginInput{
		Email:    strings.ToLower(strings.TrimSpace(r.Email)),
		Password: r.Password,
	}
}

type TokenResponse struct {
	Token string `json:"token"`
}
