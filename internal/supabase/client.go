package supabase

import (
	"net/http"
	"time"
)

// Client wraps the three external Supabase interfaces this system depends
// on: the auth endpoints (password grant and token introspection), the
// tabular REST endpoints, and object storage.
type Client struct {
	baseURL        string
	apiKey         string
	serviceRoleKey string
	bucket         string
	client         *http.Client
}

// Config holds configuration for the Supabase client
type Config struct {
	BaseURL        string
	APIKey         string
	ServiceRoleKey string
	StorageBucket  string
}

// NewClient creates a new Supabase client
func NewClient(config Config) *Client {
	return &Client{
		baseURL:        config.BaseURL,
		apiKey:         config.APIKey,
		serviceRoleKey: config.ServiceRoleKey,
		bucket:         config.StorageBucket,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// anonHeaders sets the public API key headers on a request
func (c *Client) anonHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

// serviceHeaders sets the privileged service-role headers on a request.
// Only directory reads use these.
func (c *Client) serviceHeaders(req *http.Request) {
	req.Header.Set("apikey", c.serviceRoleKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceRoleKey)
}
