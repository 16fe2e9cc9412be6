package api

import (
	"context"
	"net/http"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	endpointLogin    = "user/login"
	endpointRegister = "user/register"
)

// Login exchanges credentials for a user and session token.
func (c *Client) Login(ctx context.Context, creds entities.UserCredentials) (*entities.AuthResponse, error) {
	return c.authenticate(ctx, endpointLogin, creds)
}

// Register creates an account and returns its session.
func (c *Client) Register(ctx context.Context, creds entities.UserCredentials) (*entities.AuthResponse, error) {
	return c.authenticate(ctx, endpointRegister, creds)
}

func (c *Client) authenticate(ctx context.Context, endpoint string, creds entities.UserCredentials) (*entities.AuthResponse, error) {
	var resp entities.AuthResponse
	err := c.callInto(ctx, endpoint, RequestOptions{Method: http.MethodPost, Body: creds}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
