package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
)

const formContentType = "application/x-www-form-urlencoded"

// Login exchanges credentials for a token pair. The call is unauthenticated;
// storing the returned access token is the session manager's job.
func (c *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	encoded := form.Encode()

	var pair TokenPair
	err := c.doJSON(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/login/",
		contentType: formContentType,
		body:        func() io.Reader { return bytes.NewBufferString(encoded) },
		skipAuth:    true,
	}, &pair)
	if err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// Register creates an account. No session side effect.
func (c *Client) Register(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	encoded := form.Encode()

	return c.doJSON(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/register/",
		contentType: formContentType,
		body:        func() io.Reader { return bytes.NewBufferString(encoded) },
		skipAuth:    true,
	}, nil)
}

// Profile resolves the current credential into the full user record.
func (c *Client) Profile(ctx context.Context) (User, error) {
	var user User
	if err := c.getJSON(ctx, "/auth/profile/", &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// ProfileUpdate is the partial payload of the profile endpoint. Nil fields
// are omitted from the request.
type ProfileUpdate struct {
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	TelegramID *string `json:"telegram_id,omitempty"`
}

func (u ProfileUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.TelegramID == nil
}

// UpdateProfile submits a partial update and returns the authoritative
// full user record.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (User, error) {
	payload, err := json.Marshal(update)
	if err != nil {
		return User{}, err
	}

	var user User
	err = c.doJSON(ctx, request{
		method:      http.MethodPut,
		path:        "/auth/profile/",
		contentType: "application/json",
		body:        func() io.Reader { return bytes.NewReader(payload) },
	}, &user)
	if err != nil {
		return User{}, err
	}
	return user, nil
}
