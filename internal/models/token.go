package models

// TokenResponse is returned by login, registration and refresh.
type TokenResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken,omitempty"`
	ExpiresIn    string      `json:"expiresIn"`
	User         *PublicUser `json:"user,omitempty"`
}
