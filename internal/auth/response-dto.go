package auth

import "time"

// represents the authentication response
type AuthResponse struct {
	Principal    PrincipalResponse `json:"principal"`
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	ExpiresIn    int64             `json:"expires_in"`
}

// represents principal data in responses (without sensitive info)
type PrincipalResponse struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	WalletAccount string    `json:"wallet_account,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
