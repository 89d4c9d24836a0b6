package jsonapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/presencehq/presence/core/auth"
)

type AuthRepository struct {
	c *Client
}

var _ auth.Repository = (*AuthRepository)(nil)

func NewAuthRepository(c *Client) *AuthRepository {
	return &AuthRepository{c: c}
}

// SignIn exchanges credentials for a session. The token travels back in the
// Authorization response header, not the body.
func (repo *AuthRepository) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	body, err := json.Marshal(map[string]interface{}{
		"user": map[string]string{
			"email":    email,
			"password": password,
		},
	})
	if err != nil {
		return auth.Session{}, errors.Wrap(err, "encoding credentials")
	}

	req, err := repo.c.newRequest(ctx, http.MethodPost, "/users/sign_in", nil, bytes.NewReader(body), "application/json", false)
	if err != nil {
		return auth.Session{}, err
	}
	resp, err := repo.c.http.Do(req)
	if err != nil {
		return auth.Session{}, errors.Wrap(err, "signing in")
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		if isStatus(err, http.StatusUnauthorized) {
			return auth.Session{}, auth.ErrBadCredentials
		}
		return auth.Session{}, err
	}

	token := auth.ExtractToken(resp.Header.Get("Authorization"))
	if token == "" {
		return auth.Session{}, errors.New("sign in response carried no token")
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return auth.Session{}, errors.Wrap(err, "decoding sign in response")
	}
	res, err := doc.One()
	if err != nil {
		return auth.Session{}, err
	}
	var usr auth.User
	if err := res.Attr(&usr); err != nil {
		return auth.Session{}, err
	}
	usr.ID = res.ID

	return auth.Session{Token: token, User: usr}, nil
}
