package auth_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	auth "github.com/stayfinder/go-auth"
)

// Mock implementations shared across the test files.

type mockStore struct {
	state  auth.SessionState
	saves  []savedEntry
	clears int

	loadErr error
	saveErr error

	// events records call ordering for publish-after-persist checks.
	events *[]string
}

type savedEntry struct {
	token string
	user  *auth.User
}

func newMockStore() *mockStore {
	return &mockStore{}
}

func (m *mockStore) Load(ctx context.Context) (auth.SessionState, error) {
	if m.loadErr != nil {
		return auth.SessionState{}, m.loadErr
	}
	return m.state, nil
}

func (m *mockStore) Save(ctx context.Context, token string, user *auth.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}

	m.saves = append(m.saves, savedEntry{token: token, user: user})
	m.state.Token = token
	if user != nil {
		m.state.User = user
	}
	m.state.IsAuthenticated = m.state.Token != "" && m.state.User != nil

	m.record("save")
	return nil
}

func (m *mockStore) Clear(ctx context.Context) error {
	m.clears++
	m.state = auth.SessionState{}
	m.record("clear")
	return nil
}

func (m *mockStore) record(event string) {
	if m.events != nil {
		*m.events = append(*m.events, event)
	}
}

type mockNavigator struct {
	routes []string
}

func (m *mockNavigator) Navigate(route string) {
	m.routes = append(m.routes, route)
}

func (m *mockNavigator) last() string {
	if len(m.routes) == 0 {
		return ""
	}
	return m.routes[len(m.routes)-1]
}

type mockAPI struct {
	loginFn    func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
	registerFn func(ctx context.Context, req auth.RegisterRequest) (*auth.UserAccount, error)
	forgotFn   func(ctx context.Context, email string) error
	resetFn    func(ctx context.Context, token, newPassword string) error

	loginCalls  int
	forgotCalls int
	resetCalls  int
}

func (m *mockAPI) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	m.loginCalls++
	if m.loginFn == nil {
		return nil, fmt.Errorf("unexpected Login call")
	}
	return m.loginFn(ctx, req)
}

func (m *mockAPI) Register(ctx context.Context, req auth.RegisterRequest) (*auth.UserAccount, error) {
	if m.registerFn == nil {
		return nil, fmt.Errorf("unexpected Register call")
	}
	return m.registerFn(ctx, req)
}

func (m *mockAPI) ForgotPassword(ctx context.Context, email string) error {
	m.forgotCalls++
	if m.forgotFn == nil {
		return fmt.Errorf("unexpected ForgotPassword call")
	}
	return m.forgotFn(ctx, email)
}

func (m *mockAPI) ResetPassword(ctx context.Context, token, newPassword string) error {
	m.resetCalls++
	if m.resetFn == nil {
		return fmt.Errorf("unexpected ResetPassword call")
	}
	return m.resetFn(ctx, token, newPassword)
}

// mintToken signs an HS256 token with the given claims. Signature
// validity is irrelevant to the codec; minting through the JWT library
// keeps the segment encoding honest.
func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return signed
}
