package api

import (
	"context"
	"net/http"

	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
)

// Register creates an account and returns the bearer token.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error) {
	var out domain.AuthResponse
	httpReq, err := c.newRequest(ctx, http.MethodPost, "/auth/register", req)
	if err != nil {
		return out, err
	}
	if err := c.do(ctx, httpReq, "Registration failed", &out); err != nil {
		return domain.AuthResponse{}, err
	}
	return out, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error) {
	var out domain.AuthResponse
	httpReq, err := c.newRequest(ctx, http.MethodPost, "/auth/login", req)
	if err != nil {
		return out, err
	}
	if err := c.do(ctx, httpReq, "Login failed", &out); err != nil {
		return domain.AuthResponse{}, err
	}
	return out, nil
}

// Me fetches the profile of the token's owner.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := c.get(ctx, "/auth/me", "Failed to get user details", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
