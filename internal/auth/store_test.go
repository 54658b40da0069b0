package auth

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/JelipeElGuapo/safebuzz/internal/state"
)

type providerMock struct {
	SignInFunc        func(ctx context.Context, email, password string) (*Account, error)
	CreateAccountFunc func(ctx context.Context, email, password string, profile Profile) (*Account, error)
	SignOutFunc       func(ctx context.Context) error
	SignInMethodsFunc func(ctx context.Context, email string) ([]string, error)
}

func (m *providerMock) SignIn(ctx context.Context, email, password string) (*Account, error) {
	return m.SignInFunc(ctx, email, password)
}

func (m *providerMock) CreateAccount(ctx context.Context, email, password string, profile Profile) (*Account, error) {
	return m.CreateAccountFunc(ctx, email, password, profile)
}

func (m *providerMock) SignOut(ctx context.Context) error {
	return m.SignOutFunc(ctx)
}

func (m *providerMock) SignInMethods(ctx context.Context, email string) ([]string, error) {
	return m.SignInMethodsFunc(ctx, email)
}

func newTestStore(t *testing.T, p Provider) *Store {
	t.Helper()
	return NewStore(p, state.NewMemorySlot(), log.New(io.Discard, "", 0))
}

// failingSlot rejects every write, standing in for an unreachable backend.
type failingSlot struct{}

func (failingSlot) Load(ctx context.Context, name string) ([]byte, error) {
	return nil, nil
}

func (failingSlot) Save(ctx context.Context, name string, data []byte) error {
	return errors.New("slot unavailable")
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success derives name from email local part", func(t *testing.T) {
		p := &providerMock{SignInFunc: func(ctx context.Context, email, password string) (*Account, error) {
			return &Account{ID: "u1", Email: "alice@example.com"}, nil
		}}
		s := newTestStore(t, p)

		if !s.Login(ctx, "alice@example.com", "secret1") {
			t.Fatalf("expected login to succeed")
		}

		id := s.Identity()
		if id == nil {
			t.Fatalf("expected identity to be set")
		}
		if id.Name != "alice" {
			t.Fatalf("expected name %q, got %q", "alice", id.Name)
		}
		if s.Loading() {
			t.Fatalf("expected loading to resolve")
		}
		if s.LastError() != "" {
			t.Fatalf("expected no error, got %q", s.LastError())
		}
	})

	t.Run("empty email falls back to Usuario", func(t *testing.T) {
		p := &providerMock{SignInFunc: func(ctx context.Context, email, password string) (*Account, error) {
			return &Account{ID: "u1"}, nil
		}}
		s := newTestStore(t, p)

		if !s.Login(ctx, "", "secret1") {
			t.Fatalf("expected login to succeed")
		}
		if got := s.Identity().Name; got != "Usuario" {
			t.Fatalf("expected name %q, got %q", "Usuario", got)
		}
	})

	t.Run("success survives failed persist", func(t *testing.T) {
		p := &providerMock{SignInFunc: func(ctx context.Context, email, password string) (*Account, error) {
			return &Account{ID: "u1", Email: "alice@example.com"}, nil
		}}
		s := NewStore(p, failingSlot{}, log.New(io.Discard, "", 0))

		if !s.Login(ctx, "alice@example.com", "secret1") {
			t.Fatalf("expected login to succeed")
		}
		if s.Identity() == nil {
			t.Fatalf("expected identity set despite failed persist")
		}
		if s.LastError() != "" {
			t.Fatalf("expected no error surfaced, got %q", s.LastError())
		}
	})

	t.Run("success keeps stored display name", func(t *testing.T) {
		p := &providerMock{SignInFunc: func(ctx context.Context, email, password string) (*Account, error) {
			return &Account{ID: "u1", Email: "alice@example.com", DisplayName: "Alice Rangel"}, nil
		}}
		s := newTestStore(t, p)

		s.Login(ctx, "alice@example.com", "secret1")

		if got := s.Identity().Name; got != "Alice Rangel" {
			t.Fatalf("expected display name kept, got %q", got)
		}
	})

	t.Run("wrong password surfaces fixed message", func(t *testing.T) {
		p := &providerMock{SignInFunc: func(ctx context.Context, email, password string) (*Account, error) {
			return nil, &ProviderError{Code: CodeWrongPassword, Message: "INVALID_PASSWORD"}
		}}
		s := newTestStore(t, p)

		if s.Login(ctx, "alice@example.com", "nope") {
			t.Fatalf("expected login to fail")
		}
		if got := s.LastError(); got != "La contraseña es incorrecta." {
			t.Fatalf("unexpected error message %q", got)
		}
		if s.Identity() != nil {
			t.Fatalf("expected identity to stay unset")
		}
		if s.Loading() {
			t.Fatalf("expected loading to resolve")
		}
	})

	t.Run("unexpected error maps to generic fallback", func(t *testing.T) {
		p := &providerMock{SignInFunc: func(ctx context.Context, email, password string) (*Account, error) {
			return nil, errors.New("dial tcp: connection refused")
		}}
		s := newTestStore(t, p)

		if s.Login(ctx, "alice@example.com", "secret1") {
			t.Fatalf("expected login to fail")
		}
		if got := s.LastError(); got != "Error al iniciar sesión. Verifica tus credenciales." {
			t.Fatalf("unexpected error message %q", got)
		}
	})

	t.Run("resets previous error on entry", func(t *testing.T) {
		calls := 0
		p := &providerMock{SignInFunc: func(ctx context.Context, email, password string) (*Account, error) {
			calls++
			if calls == 1 {
				return nil, &ProviderError{Code: CodeUserNotFound}
			}
			return &Account{ID: "u1", Email: "alice@example.com"}, nil
		}}
		s := newTestStore(t, p)

		s.Login(ctx, "alice@example.com", "secret1")
		if s.LastError() == "" {
			t.Fatalf("expected first attempt to record an error")
		}

		s.Login(ctx, "alice@example.com", "secret1")
		if got := s.LastError(); got != "" {
			t.Fatalf("expected error cleared, got %q", got)
		}
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("success uses locally supplied name", func(t *testing.T) {
		var gotProfile Profile
		p := &providerMock{CreateAccountFunc: func(ctx context.Context, email, password string, profile Profile) (*Account, error) {
			gotProfile = profile
			return &Account{ID: "u2", Email: email}, nil
		}}
		s := newTestStore(t, p)

		if !s.Register(ctx, "Bob", "bob@example.com", "secret1") {
			t.Fatalf("expected register to succeed")
		}
		if gotProfile.Name != "Bob" {
			t.Fatalf("expected profile name forwarded, got %q", gotProfile.Name)
		}
		if got := s.Identity().Name; got != "Bob" {
			t.Fatalf("expected identity name %q, got %q", "Bob", got)
		}
	})

	t.Run("duplicate email message supports switch-to-login", func(t *testing.T) {
		p := &providerMock{CreateAccountFunc: func(ctx context.Context, email, password string, profile Profile) (*Account, error) {
			return nil, &ProviderError{Code: CodeEmailInUse, Message: "EMAIL_EXISTS"}
		}}
		s := newTestStore(t, p)

		if s.Register(ctx, "Bob", "bob@example.com", "secret1") {
			t.Fatalf("expected register to fail")
		}
		want := "Este correo ya está registrado. ¿Ya tienes una cuenta? Intenta iniciar sesión."
		if got := s.LastError(); got != want {
			t.Fatalf("unexpected message %q", got)
		}
		if s.Identity() != nil {
			t.Fatalf("expected identity to stay unset")
		}
		if s.Loading() {
			t.Fatalf("expected loading to resolve")
		}
	})

	t.Run("unexpected error maps to generic fallback", func(t *testing.T) {
		p := &providerMock{CreateAccountFunc: func(ctx context.Context, email, password string, profile Profile) (*Account, error) {
			return nil, errors.New("unexpected EOF")
		}}
		s := newTestStore(t, p)

		s.Register(ctx, "Bob", "bob@example.com", "secret1")
		if got := s.LastError(); got != "Error al crear la cuenta. Intenta nuevamente." {
			t.Fatalf("unexpected message %q", got)
		}
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("success clears identity and error", func(t *testing.T) {
		p := &providerMock{
			SignInFunc: func(ctx context.Context, email, password string) (*Account, error) {
				return &Account{ID: "u1", Email: "alice@example.com"}, nil
			},
			SignOutFunc: func(ctx context.Context) error { return nil },
		}
		s := newTestStore(t, p)
		s.Login(ctx, "alice@example.com", "secret1")

		s.Logout(ctx)

		if s.Identity() != nil {
			t.Fatalf("expected identity cleared")
		}
		if s.LastError() != "" {
			t.Fatalf("expected error cleared, got %q", s.LastError())
		}
	})

	t.Run("failure keeps prior identity", func(t *testing.T) {
		p := &providerMock{
			SignInFunc: func(ctx context.Context, email, password string) (*Account, error) {
				return &Account{ID: "u1", Email: "alice@example.com"}, nil
			},
			SignOutFunc: func(ctx context.Context) error { return errors.New("provider down") },
		}
		s := newTestStore(t, p)
		s.Login(ctx, "alice@example.com", "secret1")

		s.Logout(ctx)

		if s.Identity() == nil {
			t.Fatalf("expected identity retained after failed sign-out")
		}
		if got := s.LastError(); got != "Error al cerrar sesión" {
			t.Fatalf("unexpected message %q", got)
		}
	})
}

func TestClearError(t *testing.T) {
	p := &providerMock{SignInFunc: func(ctx context.Context, email, password string) (*Account, error) {
		return nil, &ProviderError{Code: CodeUserNotFound}
	}}
	s := newTestStore(t, p)
	s.Login(context.Background(), "ghost@example.com", "x")

	s.ClearError()

	if s.LastError() != "" {
		t.Fatalf("expected error cleared")
	}
}

func TestSetIdentity(t *testing.T) {
	t.Run("applies out-of-band sign-in", func(t *testing.T) {
		s := newTestStore(t, &providerMock{})

		s.SetIdentity(&Identity{ID: "u9", Name: "Carla", Email: "carla@example.com"})

		id := s.Identity()
		if id == nil || id.ID != "u9" {
			t.Fatalf("expected identity applied, got %+v", id)
		}
	})

	t.Run("last writer wins", func(t *testing.T) {
		s := newTestStore(t, &providerMock{})

		s.SetIdentity(&Identity{ID: "u9"})
		s.SetIdentity(nil)

		if s.Identity() != nil {
			t.Fatalf("expected signed-out state")
		}
	})
}

type watchingProviderMock struct {
	providerMock
	listener func(*Identity)
}

func (m *watchingProviderMock) OnIdentityChanged(fn func(*Identity)) (stop func()) {
	m.listener = fn
	return func() { m.listener = nil }
}

func TestWatcherUpdatesApplyToStore(t *testing.T) {
	p := &watchingProviderMock{}
	s := newTestStore(t, p)

	w, ok := Provider(p).(Watcher)
	if !ok {
		t.Fatalf("expected provider to implement Watcher")
	}
	stop := w.OnIdentityChanged(s.SetIdentity)
	defer stop()

	p.listener(&Identity{ID: "u7", Email: "eva@example.com"})
	id := s.Identity()
	if id == nil || id.ID != "u7" {
		t.Fatalf("expected out-of-band identity applied, got %+v", id)
	}

	p.listener(nil)
	if s.Identity() != nil {
		t.Fatalf("expected signed-out state after out-of-band sign-out")
	}
}

func TestEmailRegistered(t *testing.T) {
	ctx := context.Background()

	t.Run("registered", func(t *testing.T) {
		p := &providerMock{SignInMethodsFunc: func(ctx context.Context, email string) ([]string, error) {
			return []string{"password"}, nil
		}}
		s := newTestStore(t, p)
		if !s.EmailRegistered(ctx, "alice@example.com") {
			t.Fatalf("expected registered email")
		}
	})

	t.Run("lookup failure degrades to false", func(t *testing.T) {
		p := &providerMock{SignInMethodsFunc: func(ctx context.Context, email string) ([]string, error) {
			return nil, errors.New("lookup failed")
		}}
		s := newTestStore(t, p)
		if s.EmailRegistered(ctx, "alice@example.com") {
			t.Fatalf("expected false on lookup error")
		}
	})
}

func TestHydrateIdentityFromSlot(t *testing.T) {
	slot := state.NewMemorySlot()
	logger := log.New(io.Discard, "", 0)
	p := &providerMock{SignInFunc: func(ctx context.Context, email, password string) (*Account, error) {
		return &Account{ID: "u1", Email: "alice@example.com"}, nil
	}}

	first := NewStore(p, slot, logger)
	first.Login(context.Background(), "alice@example.com", "secret1")

	second := NewStore(p, slot, logger)
	id := second.Identity()
	if id == nil || id.Email != "alice@example.com" {
		t.Fatalf("expected rehydrated identity, got %+v", id)
	}
}
