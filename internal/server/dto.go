package server

import "time"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type mfaCompleteRequest struct {
	MFAChallenge string `json:"mfaChallenge"`
}

// tokenResponse is the wire shape shared by login, refresh, and MFA
// completion. When RequiresMFA is set the token fields are empty and
// MFAChallenge carries the reference for the completion call.
type tokenResponse struct {
	AccessToken        string     `json:"accessToken"`
	RefreshToken       string     `json:"refreshToken"`
	AccessTokenExpiry  *time.Time `json:"accessTokenExpiry,omitempty"`
	RefreshTokenExpiry *time.Time `json:"refreshTokenExpiry,omitempty"`
	RequiresMFA        bool       `json:"requiresMfa"`
	MFAChallenge       string     `json:"mfaChallenge,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}
