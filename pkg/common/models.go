package common

import "time"

// Identity

const IdentityContextKey string = "IdentityContextKey"

type Identity struct {
	Username   string
	Email      string
	Attributes map[string]string
	Expires    time.Time
}

// Session cookies written by the auth API and read by the access gate

const (
	IdTokenCookie      = "cognito_id_token"
	AccessTokenCookie  = "cognito_access_token"
	RefreshTokenCookie = "cognito_refresh_token"
)

type Tokens struct {
	IdToken      string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}
