package api

import (
	"context"
	"net/http"
	"strings"
)

// SendOTP asks the server to text a verification code to phone.
func (c *Client) SendOTP(ctx context.Context, phone string) (string, error) {
	env, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/mobile/auth/send-otp",
		body:   map[string]string{"phoneNumber": phone},
	})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// VerifyOTP checks the code and returns the new session.
func (c *Client) VerifyOTP(ctx context.Context, phone, code string) (*AuthResult, error) {
	return c.authCall(ctx, "/api/mobile/auth/verify-otp", map[string]string{
		"phoneNumber": phone,
		"otp":         code,
	})
}

// CompleteRegistration submits the profile for a verified phone. An empty
// email is left out of the body.
func (c *Client) CompleteRegistration(ctx context.Context, reg Registration) (*AuthResult, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	return c.authCall(ctx, "/api/mobile/auth/complete-registration", reg)
}

// Login authenticates with phone and password.
func (c *Client) Login(ctx context.Context, phone, password string) (*AuthResult, error) {
	return c.authCall(ctx, "/api/mobile/auth/login", map[string]string{
		"phoneNumber": phone,
		"password":    password,
	})
}

func (c *Client) authCall(ctx context.Context, path string, body any) (*AuthResult, error) {
	env, err := c.do(ctx, request{method: http.MethodPost, path: path, body: body})
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:             env.Token,
		User:              env.User,
		Message:           env.Message,
		IsProfileComplete: env.IsProfileComplete,
	}, nil
}
