package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// LoginRequest is bound from the OAuth2 password form posted to
// /login/access-token. The form's username field carries the email, which is
// how the upstream clients already send it.
type LoginRequest struct {
	Email    string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// TokenResponse is the bearer token envelope returned by login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// NewTokenResponse wraps an access token in the bearer envelope.
func NewTokenResponse(accessToken string) TokenResponse {
	return TokenResponse{AccessToken: accessToken, TokenType: "bearer"}
}
