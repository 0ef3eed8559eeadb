package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalambet/firmsfinder/internal/directory"
	"github.com/kalambet/firmsfinder/internal/session"
)

type fakeBackend struct {
	loginRes    directory.LoginResult
	loginErr    error
	registerErr error
	calls       int
	registered  directory.Registration
}

func (f *fakeBackend) Login(context.Context, string, string) (directory.LoginResult, error) {
	f.calls++
	return f.loginRes, f.loginErr
}

func (f *fakeBackend) Register(_ context.Context, r directory.Registration) error {
	f.calls++
	f.registered = r
	return f.registerErr
}

type memTokens struct {
	token    string
	clearErr error
}

func (m *memTokens) SetToken(t string) error { m.token = t; return nil }
func (m *memTokens) ClearToken() error {
	m.token = ""
	return m.clearErr
}

type memPersister struct{ data []byte }

func (m *memPersister) Load(context.Context) ([]byte, error)   { return m.data, nil }
func (m *memPersister) Save(_ context.Context, d []byte) error { m.data = d; return nil }
func (m *memPersister) Clear(context.Context) error            { m.data = nil; return nil }

func newService(b *fakeBackend) (*Service, *session.Store, *memTokens) {
	store := session.New(&memPersister{}, nil)
	store.Initialize(context.Background())
	tokens := &memTokens{}
	return NewService(b, store, tokens, nil), store, tokens
}

func TestLogin_StoresTokenAndSession(t *testing.T) {
	b := &fakeBackend{loginRes: directory.LoginResult{
		User:  directory.User{ID: "1", Name: "X", Email: "x@x.com"},
		Token: "jwt",
	}}
	svc, store, tokens := newService(b)

	user, err := svc.Login(context.Background(), "x@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "1", user.ID)
	assert.Equal(t, "jwt", tokens.token)
	assert.Equal(t, session.StatusAuthenticated, store.State().Status())
}

func TestLogin_BackendMessageFallback(t *testing.T) {
	b := &fakeBackend{loginErr: &directory.APIError{StatusCode: 401}}
	svc, store, _ := newService(b)

	_, err := svc.Login(context.Background(), "x@x.com", "bad")
	require.Error(t, err)
	assert.Equal(t, "Login failed.", err.Error())
	assert.Equal(t, session.StatusAnonymous, store.State().Status())
}

func TestLogin_KeepsBackendMessage(t *testing.T) {
	b := &fakeBackend{loginErr: &directory.APIError{StatusCode: 401, Message: "Invalid credentials"}}
	svc, _, _ := newService(b)

	_, err := svc.Login(context.Background(), "x@x.com", "bad")
	assert.EqualError(t, err, "Invalid credentials")
}

func TestLogin_MissingFieldSkipsBackend(t *testing.T) {
	b := &fakeBackend{}
	svc, _, _ := newService(b)

	_, err := svc.Login(context.Background(), " ", "pw")
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Zero(t, b.calls)
}

func TestRegister(t *testing.T) {
	b := &fakeBackend{}
	svc, store, _ := newService(b)

	err := svc.Register(context.Background(), directory.Registration{
		Name: "X", Phone: "123", Email: " x@x.com ", Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "x@x.com", b.registered.Email)
	assert.Equal(t, session.StatusAnonymous, store.State().Status(), "registering does not sign in")

	err = svc.Register(context.Background(), directory.Registration{Name: "X", Email: "x@x.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "phone")
	assert.Equal(t, 1, b.calls)
}

func TestRegister_FallbackMessage(t *testing.T) {
	b := &fakeBackend{registerErr: &directory.APIError{StatusCode: 409}}
	svc, _, _ := newService(b)

	err := svc.Register(context.Background(), directory.Registration{Name: "X", Phone: "1", Email: "e", Password: "p"})
	assert.EqualError(t, err, "Registration failed.")
}

func TestLogout_ClearsEvenIfTokenRemovalFails(t *testing.T) {
	b := &fakeBackend{loginRes: directory.LoginResult{User: directory.User{ID: "1"}, Token: "jwt"}}
	svc, store, tokens := newService(b)
	_, err := svc.Login(context.Background(), "a", "b")
	require.NoError(t, err)

	tokens.clearErr = errors.New("keychain locked")
	require.NoError(t, svc.Logout(context.Background()))
	assert.Equal(t, session.StatusAnonymous, store.State().Status())
}
