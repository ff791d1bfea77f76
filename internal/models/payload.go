package models

import "time"

// JwtPayload is the decoded, fully validated content of a token. A payload
// is either complete or absent: a token failing any claim check never yields
// a partially populated payload.
type JwtPayload struct {
	JwtID          string    `json:"jwtId"`
	Issuer         string    `json:"issuer"`
	Audience       string    `json:"audience"`
	UserNo         int64     `json:"userNo"`
	Role           string    `json:"role"`
	IssuedAt       time.Time `json:"issuedAt"`
	ExpirationTime time.Time `json:"expirationTime"`
	Subject        TokenType `json:"subject"`
}
