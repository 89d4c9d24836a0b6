package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/presencehq/presence/core"
)

type (
	Repository interface {
		SignIn(ctx context.Context, email, password string) (Session, error)
	}

	Service struct {
		repo  Repository
		store Store
	}
)

func NewService(repo Repository, store Store) *Service {
	return &Service{repo: repo, store: store}
}

// Login authenticates against the backend and persists the session.
func (svc *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = core.CleanString(email, true /* lower */)
	if email == "" || password == "" {
		return Session{}, core.NewValidationError(errors.New("email and password are required"))
	}
	sess, err := svc.repo.SignIn(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	if err := svc.store.Save(sess); err != nil {
		return Session{}, errors.Wrap(err, "persisting session")
	}
	return sess, nil
}

// Current loads the persisted session, rejecting expired ones.
func (svc *Service) Current() (Session, error) {
	sess, err := svc.store.Load()
	if err != nil {
		return Session{}, err
	}
	if !sess.Authenticated() || sess.Expired(time.Now()) {
		return Session{}, ErrNotAuthenticated
	}
	return sess, nil
}

// Logout clears both the in-memory and the persisted copies.
func (svc *Service) Logout() error {
	return svc.store.Clear()
}
