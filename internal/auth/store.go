package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/JelipeElGuapo/safebuzz/internal/state"
)

// SlotName is the fixed key the auth store serializes itself under.
const SlotName = "safebuzz-auth"

const persistTimeout = 3 * time.Second

// Fallback messages for failures the provider did not report in its
// structured shape. The raw diagnostic is logged, never shown.
const (
	loginFallback    = "Error al iniciar sesión. Verifica tus credenciales."
	registerFallback = "Error al crear la cuenta. Intenta nuevamente."
	logoutFallback   = "Error al cerrar sesión"
)

// Identity is the signed-in principal. A nil Identity means signed out.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type persistedAuth struct {
	User *Identity `json:"user"`
}

// Store coordinates credential submission with the identity provider and
// holds the current session identity plus transient request state.
//
// State transitions are applied under a short lock, but the lock is not held
// across the provider round trip: two overlapping Login calls race, and the
// later resolution overwrites the earlier one's loading/error/identity. That
// matches the behavior of the client app this replaces.
type Store struct {
	mu       sync.Mutex
	provider Provider
	slot     state.Slot
	logger   *log.Logger

	user    *Identity
	loading bool
	lastErr string
}

// NewStore builds an auth store hydrated from the slot.
func NewStore(provider Provider, slot state.Slot, logger *log.Logger) *Store {
	s := &Store{provider: provider, slot: slot, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	data, err := slot.Load(ctx, SlotName)
	if err != nil {
		logger.Printf("auth: hydrate failed: %v", err)
		return s
	}
	if data == nil {
		return s
	}

	var saved persistedAuth
	if err := json.Unmarshal(data, &saved); err != nil {
		logger.Printf("auth: discard corrupt state: %v", err)
		return s
	}
	s.user = saved.User
	return s
}

// Login signs in through the provider. The shown name falls back to the
// email's local part when the provider has no display name stored.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	s.begin()

	acct, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		s.fail("login", err, loginFallback)
		return false
	}

	name := acct.DisplayName
	if name == "" {
		name = localPart(acct.Email)
	}
	addr := acct.Email
	if addr == "" {
		addr = email
	}

	s.succeed(&Identity{ID: acct.ID, Name: name, Email: addr})
	return true
}

// Register creates an account through the provider. Preconditions (non-empty
// name, password length, confirmation match) are the caller's responsibility;
// the store forwards as given. On success the identity carries the locally
// supplied name, not one derived from the email.
func (s *Store) Register(ctx context.Context, name, email, password string) bool {
	s.begin()

	acct, err := s.provider.CreateAccount(ctx, email, password, Profile{Name: name})
	if err != nil {
		s.fail("register", err, registerFallback)
		return false
	}

	addr := acct.Email
	if addr == "" {
		addr = email
	}

	s.succeed(&Identity{ID: acct.ID, Name: name, Email: addr})
	return true
}

// Logout signs out through the provider. A failed sign-out keeps the prior
// identity: the provider is the source of truth and may still consider the
// session active.
func (s *Store) Logout(ctx context.Context) {
	s.begin()

	if err := s.provider.SignOut(ctx); err != nil {
		s.fail("logout", err, logoutFallback)
		return
	}

	s.succeed(nil)
}

// ClearError drops the last error without touching identity or loading.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}

// SetIdentity applies a session change asserted by the provider outside of
// explicit calls. Last writer wins; no reconciliation against in-flight
// operations.
func (s *Store) SetIdentity(id *Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = id
	s.persistLocked()
}

// EmailRegistered reports whether the provider already knows the email.
// Errors degrade to false so the registration flow is never blocked by the
// lookup.
func (s *Store) EmailRegistered(ctx context.Context, email string) bool {
	methods, err := s.provider.SignInMethods(ctx, email)
	if err != nil {
		s.logger.Printf("auth: sign-in methods lookup: %v", err)
		return false
	}
	return len(methods) > 0
}

// Identity returns the current signed-in principal, or nil.
func (s *Store) Identity() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Loading reports whether a login/register/logout call is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the message of the most recent failure, or "".
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.lastErr = ""
}

func (s *Store) succeed(id *Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = id
	s.loading = false
	s.lastErr = ""
	s.persistLocked()
}

func (s *Store) fail(op string, err error, fallback string) {
	var perr *ProviderError
	msg := fallback
	if errors.As(err, &perr) {
		msg = TranslateProviderError(perr)
	} else {
		s.logger.Printf("auth: %s unexpected error: %v", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.lastErr = msg
}

func (s *Store) persistLocked() {
	data, err := json.Marshal(persistedAuth{User: s.user})
	if err != nil {
		s.logger.Printf("auth: marshal state: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.slot.Save(ctx, SlotName, data); err != nil {
		s.logger.Printf("auth: persist failed: %v", err)
	}
}

func localPart(email string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	if local == "" {
		return "Usuario"
	}
	return local
}
