// Package auth is the session/identity gateway: account provisioning,
// credential verification, session markers and role lookup.
package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workload/internal/apperr"
	"workload/internal/model"
	"workload/internal/mq"
	"workload/internal/util"
)

// MinPasswordLength is the weak-password cutoff.
const MinPasswordLength = 6

type IdentityStore interface {
	CreateCredential(ctx context.Context, email, passwordHash string) (string, error)
	FindCredentialByEmail(ctx context.Context, email string) (*model.Credential, error)
	CreateUser(ctx context.Context, u *model.User) error
	FindUserByID(ctx context.Context, id string) (*model.User, error)
}

type SessionStore interface {
	Establish(ctx context.Context, userID string) error
	Clear(ctx context.Context, userID string) error
}

type Service struct {
	ids       IdentityStore
	sessions  SessionStore
	publisher mq.Publisher
	jwtSecret string
	logger    *zap.Logger
}

func NewService(ids IdentityStore, sessions SessionStore, publisher mq.Publisher, jwtSecret string, logger *zap.Logger) *Service {
	return &Service{
		ids:       ids,
		sessions:  sessions,
		publisher: publisher,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// CreateAccount provisions a credential and then the user record keyed
// by the credential's ID. If the user-record write fails the credential
// row stays behind; that degraded state is accepted and not rolled
// back.
func (s *Service) CreateAccount(ctx context.Context, email, password string, role model.Role) (*model.User, error) {
	if len(password) < MinPasswordLength {
		return nil, &apperr.AuthError{Reason: "password must be at least 6 characters"}
	}

	existing, err := s.ids.FindCredentialByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, &apperr.PersistenceError{Op: "look up credential", Err: err}
	}
	if existing != nil {
		return nil, &apperr.AuthError{Reason: "email already exists"}
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, &apperr.AuthError{Reason: "failed to process password", Err: err}
	}

	credID, err := s.ids.CreateCredential(ctx, email, hash)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "create credential", Err: err}
	}

	u := &model.User{
		ID:    credID,
		Email: email,
		Role:  role,
	}
	if err := s.ids.CreateUser(ctx, u); err != nil {
		// Orphaned credential left behind.
		s.logger.Warn("User record write failed after credential creation",
			zap.String("credential_id", credID),
			zap.Error(err),
		)
		return nil, &apperr.PersistenceError{Op: "create user record", Err: err}
	}

	if err := s.publisher.Publish(mq.KeyAccountCreated, mq.AccountCreatedPayload{
		UserID: u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
	}); err != nil {
		s.logger.Warn("Failed to publish account.created", zap.Error(err))
	}

	return u, nil
}

// Authenticate verifies the credential and resolves the user record.
// A valid credential without a user record is a NotFoundError, not an
// AuthError: the password was right, the profile is missing.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	cred, err := s.ids.FindCredentialByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", &apperr.AuthError{Reason: "invalid email or password"}
	}
	if err != nil {
		return nil, "", &apperr.PersistenceError{Op: "look up credential", Err: err}
	}

	if !util.CheckPassword(password, cred.PasswordHash) {
		return nil, "", &apperr.AuthError{Reason: "invalid email or password"}
	}

	u, err := s.ids.FindUserByID(ctx, cred.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", &apperr.NotFoundError{Resource: "user record", ID: cred.ID}
	}
	if err != nil {
		return nil, "", &apperr.PersistenceError{Op: "look up user record", Err: err}
	}

	token, err := util.GenerateJWT(u.ID, s.jwtSecret)
	if err != nil {
		return nil, "", &apperr.AuthError{Reason: "failed to issue token", Err: err}
	}

	return u, token, nil
}

// EstablishSession writes the session marker with its fixed expiry.
func (s *Service) EstablishSession(ctx context.Context, userID string) error {
	if err := s.sessions.Establish(ctx, userID); err != nil {
		return &apperr.PersistenceError{Op: "establish session", Err: err}
	}
	return nil
}

// EndSession clears the marker. Idempotent; with the marker gone every
// outstanding token for the user stops working.
func (s *Service) EndSession(ctx context.Context, userID string) error {
	if err := s.sessions.Clear(ctx, userID); err != nil {
		return &apperr.PersistenceError{Op: "end session", Err: err}
	}
	return nil
}

// CurrentRole re-reads the role from the user record. The session
// marker does not carry the role, so this runs on every protected
// request and after reloads.
func (s *Service) CurrentRole(ctx context.Context, userID string) (model.Role, error) {
	u, err := s.ids.FindUserByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", &apperr.NotFoundError{Resource: "user record", ID: userID}
	}
	if err != nil {
		return "", &apperr.PersistenceError{Op: "look up user record", Err: err}
	}
	return u.Role, nil
}
