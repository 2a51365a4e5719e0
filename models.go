package auth

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// User is the snapshot of the signed-in account derived from token
// claims. It is only ever replaced wholesale, never mutated field by
// field.
type User struct {
	ID    *int64   `json:"id,omitempty"`
	Name  string   `json:"nombre,omitempty"`
	Email string   `json:"email,omitempty"`
	Role  UserRole `json:"role,omitempty"`
}

// UserFromClaims projects decoded claims into a User snapshot.
func UserFromClaims(claims *Claims) *User {
	user := &User{
		ID:    claims.UserID,
		Name:  claims.Name,
		Email: claims.Subject,
	}

	if role, ok := NormalizeRole(claims); ok {
		user.Role = role
	}

	return user
}

// SessionState is the persisted view of the session: IsAuthenticated
// holds only when both the token and a user snapshot are present.
type SessionState struct {
	Token           string
	User            *User
	IsAuthenticated bool
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"contrasena"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginResponse carries the bearer token issued by the backend.
type LoginResponse struct {
	Token string `json:"token"`
}

// RegisterRequest is the account-creation payload.
type RegisterRequest struct {
	Name     string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"telefono,omitempty"`
}

// Validate will validate the payload
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.Phone, validation.By(validPhone)),
	)
}

// validPhone accepts empty values; the backend treats the phone as
// optional.
func validPhone(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}

	num, err := phonenumbers.Parse(raw, "CO")
	if err != nil {
		return errors.New("must be a valid phone number")
	}
	if !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid phone number")
	}
	return nil
}

// ForgotPasswordRequest asks the backend to start a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// Validate will run validation rules
func (r ForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}
