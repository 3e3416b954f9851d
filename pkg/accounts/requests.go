// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package accounts

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/canonical/inventory-service/internal/types"
)

const minPasswordLength = 8

type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,password"`
	CompanyName string `json:"companyName" validate:"required"`
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
}

func (r *SignupRequest) normalize() {
	r.Email = normalizeEmail(r.Email)
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type GoogleSignInRequest struct {
	IDToken     string `json:"idToken" validate:"required"`
	CompanyName string `json:"companyName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
}

func (r *GoogleSignInRequest) hasProfile() bool {
	return strings.TrimSpace(r.CompanyName) != "" &&
		strings.TrimSpace(r.FirstName) != "" &&
		strings.TrimSpace(r.LastName) != ""
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type IssueTokenRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// Session is a signed session token and the account it was issued for.
type Session struct {
	Token string
	User  *types.User
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// passwordProblems lists every rule the password breaks.
func passwordProblems(password string) []string {
	var upper, lower, digit, symbol bool

	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}

	var problems []string
	if len([]rune(password)) < minPasswordLength {
		problems = append(problems, "must be at least 8 characters long")
	}
	if !upper {
		problems = append(problems, "must contain an uppercase letter")
	}
	if !lower {
		problems = append(problems, "must contain a lowercase letter")
	}
	if !digit {
		problems = append(problems, "must contain a digit")
	}
	if !symbol {
		problems = append(problems, "must contain a special character")
	}

	return problems
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return len(passwordProblems(fl.Field().String())) == 0
	})

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})

	return v
}

// validationError turns validator output into a ValidationError, password
// failures carry every broken rule.
func validationError(err error, password string) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return types.NewValidationError("body", "%v", err)
	}

	verr := new(types.ValidationError)
	for _, fe := range errs {
		msg := "is required"
		switch fe.Tag() {
		case "email":
			msg = "must be a valid e-mail address"
		case "password":
			msg = strings.Join(passwordProblems(password), ", ")
		}
		verr.Fields = append(verr.Fields, types.FieldError{Field: fe.Field(), Message: msg})
	}

	return verr
}
