package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Well-known host routes collaborators are steered towards. The
// package never performs navigation itself; it asks the injected
// Navigator.
const (
	RouteLogin          = "/login"
	RouteHome           = "/inicio"
	RouteForgotPassword = "/forgot-password"
)

// Navigator lets the host application decide how a route change is
// carried out (router push, full reload, test spy).
type Navigator interface {
	Navigate(route string)
}

// SessionStore persists the (token, user, role) triple across process
// restarts.
type SessionStore interface {
	Load(ctx context.Context) (SessionState, error)
	Save(ctx context.Context, token string, user *User) error
	Clear(ctx context.Context) error
}

// APIClient covers the remote endpoints the session core consumes.
type APIClient interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*UserAccount, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

type noopNavigator struct{}

func (noopNavigator) Navigate(string) {}
