package models

import "time"

// TokenType is the value carried in the "sub" claim of every issued token.
type TokenType string

const (
	AccessToken  TokenType = "access_token"
	RefreshToken TokenType = "refresh_token"
)

// ParseTokenType maps a subject claim back to a token type.
// The second return value is false for anything outside the two known kinds.
func ParseTokenType(subject string) (TokenType, bool) {
	switch TokenType(subject) {
	case AccessToken, RefreshToken:
		return TokenType(subject), true
	default:
		return "", false
	}
}

// TokenRecord is the persisted metadata of an issued token. Records are
// immutable once written; logout flips the destroy flag instead of deleting
// the row.
type TokenRecord struct {
	TokenID     string     `json:"tokenId"`
	UserNo      int64      `json:"userNo"`
	Subject     TokenType  `json:"subject"`
	IssuedAt    time.Time  `json:"issuedAt"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	Signature   string     `json:"signature"`
	Destroyed   bool       `json:"destroyed"`
	DestroyedAt *time.Time `json:"destroyedAt,omitempty"`
}
