// Package localidp is a self-hosted identity provider backed by the
// storefront database. It exists for deployments that do not configure an
// external identity backend, and it honors the same provider-error contract.
package localidp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/JelipeElGuapo/safebuzz/internal/auth"
)

const (
	uniqueViolation = "23505"
	tokenLifetime   = 24 * time.Hour
	minPasswordLen  = 6
)

type Provider struct {
	db     *sql.DB
	jwtKey []byte
}

func New(db *sql.DB, jwtKey []byte) *Provider {
	return &Provider{db: db, jwtKey: jwtKey}
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*auth.Account, error) {
	if email == "" {
		return nil, &auth.ProviderError{Code: auth.CodeMissingEmail, Message: "MISSING_EMAIL"}
	}
	if password == "" {
		return nil, &auth.ProviderError{Code: auth.CodeMissingPassword, Message: "MISSING_PASSWORD"}
	}

	var (
		id   string
		name sql.NullString
		hash string
	)
	err := p.db.QueryRowContext(ctx,
		`SELECT id, name, password_hash FROM users WHERE email = $1`, email,
	).Scan(&id, &name, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &auth.ProviderError{Code: auth.CodeUserNotFound, Message: "EMAIL_NOT_FOUND"}
		}
		return nil, fmt.Errorf("select user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, &auth.ProviderError{Code: auth.CodeWrongPassword, Message: "INVALID_PASSWORD"}
	}

	token, err := p.issueToken(id, email)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &auth.Account{ID: id, Email: email, DisplayName: name.String, Token: token}, nil
}

func (p *Provider) CreateAccount(ctx context.Context, email, password string, profile auth.Profile) (*auth.Account, error) {
	if email == "" {
		return nil, &auth.ProviderError{Code: auth.CodeMissingEmail, Message: "MISSING_EMAIL"}
	}
	if password == "" {
		return nil, &auth.ProviderError{Code: auth.CodeMissingPassword, Message: "MISSING_PASSWORD"}
	}
	if len(password) < minPasswordLen {
		return nil, &auth.ProviderError{Code: auth.CodeWeakPassword, Message: "WEAK_PASSWORD"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id := uuid.NewString()
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at) VALUES ($1, $2, $3, $4, NOW())`,
		id, profile.Name, email, string(hash),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, &auth.ProviderError{Code: auth.CodeEmailInUse, Message: "EMAIL_EXISTS"}
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	token, err := p.issueToken(id, email)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &auth.Account{ID: id, Email: email, DisplayName: profile.Name, Token: token}, nil
}

// SignOut is a no-op: issued tokens are stateless and simply expire.
func (p *Provider) SignOut(ctx context.Context) error {
	return nil
}

func (p *Provider) SignInMethods(ctx context.Context, email string) ([]string, error) {
	var exists bool
	err := p.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}

	if !exists {
		return nil, nil
	}
	return []string{"password"}, nil
}

func (p *Provider) issueToken(userID, email string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Audience:  jwt.ClaimStrings{email},
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.jwtKey)
}
