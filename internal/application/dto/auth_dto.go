package dto

import "time"

// SessionClaims identidad extraída de la cookie de sesión.
type SessionClaims struct {
	UserID  int64
	Shift   string
	IsAdmin bool
}

// SessionResult token emitido junto con el usuario que lo obtuvo.
type SessionResult struct {
	Token     string
	ExpiresIn time.Duration
	User      UserInfo
}
