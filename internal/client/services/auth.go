// Package services contains the application services of the letterpress
// editor. This file defines the session service: sign in, sign out and the
// bearer token handed to every authenticated request.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/letterpress/internal/client/client"
	"github.com/dmitrijs2005/letterpress/internal/client/models"
	"github.com/dmitrijs2005/letterpress/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/letterpress/internal/common"
	"github.com/dmitrijs2005/letterpress/internal/dbx"
	"github.com/dmitrijs2005/letterpress/internal/logging"
)

const (
	metaAccessToken = "access_token"
	metaEmail       = "email"
)

// SessionService is the auth session provider.
//
// Contract:
//   - GetSession: the stored session, or an error wrapping
//     common.ErrAuthRequired when there is none or its token has expired.
//   - SignIn: authenticate against the server and persist the session.
//   - SignOut: forget the session locally; the server is told best-effort.
//   - Token: the bearer token of the current session.
type SessionService interface {
	GetSession(ctx context.Context) (*models.Session, error)
	SignIn(ctx context.Context, email string, password []byte) (*models.Session, error)
	SignOut(ctx context.Context) error
	Token(ctx context.Context) (string, error)
}

type sessionService struct {
	client   client.Client
	db       *sql.DB
	log      logging.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewSessionService constructs a SessionService bound to the API client and
// the local database.
func NewSessionService(c client.Client, db *sql.DB, log logging.Logger) SessionService {
	return &sessionService{client: c, db: db, log: log, validate: validator.New(), now: time.Now}
}

func (s *sessionService) getMetadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (s *sessionService) GetSession(ctx context.Context) (*models.Session, error) {
	repo := s.getMetadataRepo(s.db)

	token, err := repo.Get(ctx, metaAccessToken)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if len(token) == 0 {
		return nil, common.ErrAuthRequired
	}
	email, err := repo.Get(ctx, metaEmail)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	if s.expired(string(token)) {
		return nil, fmt.Errorf("session expired: %w", common.ErrAuthRequired)
	}
	return &models.Session{AccessToken: string(token), Email: string(email)}, nil
}

// expired reads the exp claim without verifying the signature; the server
// does the verification. Tokens that are not JWTs never expire here.
func (s *sessionService) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !s.now().Before(exp.Time)
}

// SignIn authenticates against the server and saves the session (email and
// access token) in a single transaction.
func (s *sessionService) SignIn(ctx context.Context, email string, password []byte) (*models.Session, error) {
	creds := models.Credentials{Email: strings.ToLower(strings.TrimSpace(email)), Password: string(password)}
	if err := s.validate.Struct(creds); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}

	token, err := s.client.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.getMetadataRepo(tx)
		if err := repo.Set(ctx, metaEmail, []byte(creds.Email)); err != nil {
			return err
		}
		return repo.Set(ctx, metaAccessToken, []byte(token))
	})
	if err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}

	s.log.Info(ctx, "signed in", "email", creds.Email)
	return &models.Session{AccessToken: token, Email: creds.Email}, nil
}

func (s *sessionService) SignOut(ctx context.Context) error {
	if err := s.client.Logout(ctx); err != nil && !errors.Is(err, common.ErrAuthRejected) {
		s.log.Warn(ctx, "server logout failed", "error", err)
	}
	if err := s.getMetadataRepo(s.db).Delete(ctx, metaAccessToken, metaEmail); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *sessionService) Token(ctx context.Context) (string, error) {
	sess, err := s.GetSession(ctx)
	if err != nil {
		return "", err
	}
	return sess.AccessToken, nil
}
