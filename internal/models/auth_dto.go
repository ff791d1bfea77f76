package models

type LoginRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthenticationResult is the data payload of a login response. Token is
// nil when authentication failed.
type AuthenticationResult struct {
	Token *TokenPair `json:"token"`
	User  *User      `json:"user"`
}

// LoginEvent is the body posted to the login webhook.
type LoginEvent struct {
	UserNo    int64  `json:"user_no"`
	UserID    string `json:"user_id"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}
