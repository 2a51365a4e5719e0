package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/stayfinder/go-auth"
)

func TestBootstrapWithoutPersistedToken(t *testing.T) {
	store := newMockStore()
	api := &mockAPI{}
	session := auth.NewAuthSession(api, store)

	var flags []bool
	var users []*auth.User
	session.OnAuthChange(func(authenticated bool) { flags = append(flags, authenticated) })
	session.OnCurrentUser(func(user *auth.User) { users = append(users, user) })

	require.NoError(t, session.Bootstrap(context.Background()))

	assert.False(t, session.IsAuthenticated())
	assert.Nil(t, session.CurrentUser())
	assert.Equal(t, auth.StatusAnonymous, session.Status())

	// no network traffic, persisted leftovers cleared
	assert.Zero(t, api.loginCalls)
	assert.Equal(t, 1, store.clears)

	assert.Equal(t, []bool{false}, flags)
	require.Len(t, users, 1)
	assert.Nil(t, users[0])
}

func TestBootstrapRestoresPersistedSession(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{
		"iss":       "ROLE_OWNER",
		"sub":       "owner@b.com",
		"usuarioId": 3,
	})

	store := newMockStore()
	store.state = auth.SessionState{Token: token}
	session := auth.NewAuthSession(&mockAPI{}, store)

	require.NoError(t, session.Bootstrap(context.Background()))

	assert.True(t, session.IsAuthenticated())
	user := session.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "owner@b.com", user.Email)
	assert.Equal(t, auth.RoleOwner, user.Role)
	require.NotNil(t, user.ID)
	assert.EqualValues(t, 3, *user.ID)
}

func TestBootstrapClearsUndecodableToken(t *testing.T) {
	store := newMockStore()
	store.state = auth.SessionState{Token: "not-a-real-token"}
	session := auth.NewAuthSession(&mockAPI{}, store)

	require.NoError(t, session.Bootstrap(context.Background()))

	assert.False(t, session.IsAuthenticated())
	assert.Nil(t, session.CurrentUser())
	assert.Equal(t, 1, store.clears)
	assert.False(t, store.state.IsAuthenticated)
}

func TestLoginEstablishesSession(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{
		"iss":       "ROLE_ADMIN",
		"sub":       "a@b.com",
		"usuarioId": 7,
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/usuario/login", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "a@b.com", payload["email"])
		require.Equal(t, "x", payload["contrasena"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
	}))
	defer srv.Close()

	store := newMockStore()
	client := auth.NewClient(&auth.Config{BaseURL: srv.URL})
	session := auth.NewAuthSession(client, store)

	resp, err := session.Login(context.Background(), auth.LoginRequest{
		Email:    "a@b.com",
		Password: "x",
	})
	require.NoError(t, err)
	assert.Equal(t, token, resp.Token)

	assert.True(t, session.IsAuthenticated())
	user := session.CurrentUser()
	require.NotNil(t, user)
	require.NotNil(t, user.ID)
	assert.EqualValues(t, 7, *user.ID)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, auth.RoleAdmin, user.Role)

	// token persisted through the store
	require.Len(t, store.saves, 1)
	assert.Equal(t, token, store.saves[0].token)
	require.NotNil(t, store.saves[0].user)
	assert.Equal(t, auth.RoleAdmin, store.saves[0].user.Role)
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{
		"iss": "CLIENT",
		"sub": "c@b.com",
	})

	store := newMockStore()
	store.state = auth.SessionState{Token: token}

	api := &mockAPI{}
	session := auth.NewAuthSession(api, store)
	require.NoError(t, session.Bootstrap(context.Background()))
	require.True(t, session.IsAuthenticated())

	var publishes int
	session.OnAuthChange(func(bool) { publishes++ })

	api.loginFn = func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
		return nil, assert.AnError
	}

	_, err := session.Login(context.Background(), auth.LoginRequest{
		Email:    "a@b.com",
		Password: "x",
	})
	require.Error(t, err)

	assert.True(t, session.IsAuthenticated())
	require.NotNil(t, session.CurrentUser())
	assert.Equal(t, "c@b.com", session.CurrentUser().Email)
	assert.Zero(t, publishes)
	assert.Empty(t, store.saves)
}

func TestLoginValidatesPayload(t *testing.T) {
	api := &mockAPI{}
	session := auth.NewAuthSession(api, newMockStore())

	_, err := session.Login(context.Background(), auth.LoginRequest{Email: "not-an-email", Password: "x"})
	require.Error(t, err)
	assert.Zero(t, api.loginCalls)

	_, err = session.Login(context.Background(), auth.LoginRequest{Email: "a@b.com"})
	require.Error(t, err)
	assert.Zero(t, api.loginCalls)
}

func TestLogout(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{"iss": "ADMIN", "sub": "a@b.com"})

	store := newMockStore()
	store.state = auth.SessionState{Token: token}
	nav := &mockNavigator{}
	session := auth.NewAuthSession(&mockAPI{}, store).WithNavigator(nav)
	require.NoError(t, session.Bootstrap(context.Background()))
	require.True(t, session.IsAuthenticated())

	var flags []bool
	var users []*auth.User
	session.OnAuthChange(func(authenticated bool) { flags = append(flags, authenticated) })
	session.OnCurrentUser(func(user *auth.User) { users = append(users, user) })

	session.Logout(context.Background())

	assert.False(t, session.IsAuthenticated())
	assert.Nil(t, session.CurrentUser())
	assert.Equal(t, 1, store.clears)
	assert.Equal(t, auth.RouteLogin, nav.last())

	assert.Equal(t, []bool{false}, flags)
	require.Len(t, users, 1)
	assert.Nil(t, users[0])
}

func TestPublishHappensAfterPersist(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{"iss": "ROLE_CLIENT", "sub": "c@b.com"})

	var events []string
	store := newMockStore()
	store.events = &events

	api := &mockAPI{
		loginFn: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
			return &auth.LoginResponse{Token: token}, nil
		},
	}

	session := auth.NewAuthSession(api, store)
	session.OnAuthChange(func(bool) { events = append(events, "auth") })
	session.OnCurrentUser(func(*auth.User) { events = append(events, "user") })

	_, err := session.Login(context.Background(), auth.LoginRequest{Email: "c@b.com", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, []string{"save", "auth", "user"}, events)
}

func TestRegisterDoesNotTouchSessionState(t *testing.T) {
	store := newMockStore()
	api := &mockAPI{
		registerFn: func(ctx context.Context, req auth.RegisterRequest) (*auth.UserAccount, error) {
			return &auth.UserAccount{ID: 99, Email: req.Email, Role: auth.RoleClient}, nil
		},
	}
	session := auth.NewAuthSession(api, store)

	account, err := session.Register(context.Background(), auth.RegisterRequest{
		Name:     "Ana",
		Email:    "new@b.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 99, account.ID)

	assert.False(t, session.IsAuthenticated())
	assert.Empty(t, store.saves)
}
