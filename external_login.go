package auth

import (
	"context"
	"net/url"

	goerrors "github.com/goliatone/go-errors"
)

// ExternalLoginBridge completes a redirect-based external login. The
// identity provider round-trips through the backend, which redirects
// back to the host application with a freshly issued bearer token in
// the query string.
type ExternalLoginBridge struct {
	store   SessionStore
	session *AuthSession
	nav     Navigator
	logger  Logger
}

// NewExternalLoginBridge creates a bridge with sane defaults.
func NewExternalLoginBridge(store SessionStore, session *AuthSession) *ExternalLoginBridge {
	return &ExternalLoginBridge{
		store:   store,
		session: session,
		nav:     noopNavigator{},
		logger:  defLogger{},
	}
}

// WithNavigator sets the host navigation callback.
func (b *ExternalLoginBridge) WithNavigator(nav Navigator) *ExternalLoginBridge {
	if nav != nil {
		b.nav = nav
	}
	return b
}

// WithLogger overrides the logger used by the bridge.
func (b *ExternalLoginBridge) WithLogger(logger Logger) *ExternalLoginBridge {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// CompleteFromRedirectParams extracts the token from the redirect
// query parameters and persists it through the same storage keys the
// session uses, then re-runs Bootstrap so the session picks it up; the
// bootstrap pass is the authoritative re-validation point, so a local
// decode failure here is logged and swallowed. A missing token is not
// an error: the user is steered back to the login screen with no
// storage writes.
func (b *ExternalLoginBridge) CompleteFromRedirectParams(ctx context.Context, params url.Values) error {
	token := params.Get("token")
	if token == "" {
		b.logger.Info("external login redirect arrived without a token parameter")
		b.nav.Navigate(RouteLogin)
		return nil
	}

	var user *User
	if claims, err := DecodePayload(token); err != nil {
		b.logger.Warn("external login token failed to decode locally: %v", err)
	} else {
		user = UserFromClaims(claims)
	}

	if err := b.store.Save(ctx, token, user); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to persist external login token")
	}

	if err := b.session.Bootstrap(ctx); err != nil {
		return err
	}

	b.nav.Navigate(RouteHome)
	return nil
}
