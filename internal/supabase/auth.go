package supabase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// passwordGrantRequest represents the password grant request body
type passwordGrantRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// passwordGrantResponse represents the password grant response body
type passwordGrantResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// userResponse represents the token introspection response body
type userResponse struct {
	Email string `json:"email"`
}

// SignIn performs a password grant against the identity provider and
// returns the issued access token. A non-200 response means the
// credentials were rejected; transport failures are returned as-is for
// the caller to decide. Single attempt, no retry.
func (c *Client) SignIn(email, password string) (string, error) {
	body, err := json.Marshal(passwordGrantRequest{Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("failed to marshal sign-in request: %w", err)
	}

	url := fmt.Sprintf("%s/auth/v1/token?grant_type=password", c.baseURL)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create sign-in request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send sign-in request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read sign-in response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w (status %d)", ErrInvalidCredentials, resp.StatusCode)
	}

	var grant passwordGrantResponse
	if err := json.Unmarshal(respBody, &grant); err != nil {
		return "", fmt.Errorf("failed to parse sign-in response: %w", err)
	}

	if grant.AccessToken == "" {
		return "", fmt.Errorf("sign-in response missing access token")
	}

	return grant.AccessToken, nil
}

// ResolveIdentity resolves a bearer token to the email it was issued for.
// Returns ErrInvalidToken if the token is invalid or expired.
func (c *Client) ResolveIdentity(accessToken string) (string, error) {
	url := fmt.Sprintf("%s/auth/v1/user", c.baseURL)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create user request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send user request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read user response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w (status %d)", ErrInvalidToken, resp.StatusCode)
	}

	var user userResponse
	if err := json.Unmarshal(respBody, &user); err != nil {
		return "", fmt.Errorf("failed to parse user response: %w", err)
	}

	if user.Email == "" {
		return "", fmt.Errorf("%w: user response missing email", ErrInvalidToken)
	}

	return user.Email, nil
}
