package auth

import "time"

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string
}

// User es la cuenta tal como la devuelve el proveedor de identidad.
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
}

// Session es el resultado de un login/verify exitoso.
// Con confirmación por email activa, SignUp devuelve Session sin AccessToken.
type Session struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	User         User   `json:"user"`
}
