package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeTokenMalformed       = "TOKEN_MALFORMED"
	textCodeRemoteFailure        = "REMOTE_FAILURE"
	textCodeMissingRecoveryToken = "RECOVERY_TOKEN_MISSING"
)

// ErrTokenMalformed is returned by the codec for tokens whose payload
// cannot be decoded. Callers treat it exactly like an absent token.
var ErrTokenMalformed = goerrors.New("unable to decode bearer token", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrMissingRecoveryToken is returned when a password reset is
// finalized without a recovery token; no network call is made.
var ErrMissingRecoveryToken = goerrors.New("missing password recovery token", goerrors.CategoryBadInput).
	WithTextCode(textCodeMissingRecoveryToken).
	WithCode(goerrors.CodeBadRequest)

// IsDecodeError reports whether err is a token decode failure.
func IsDecodeError(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == textCodeTokenMalformed
	}
	return false
}

// IsRemoteError reports whether err came back from the booking
// backend rather than from local decode or storage work.
func IsRemoteError(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == textCodeRemoteFailure
	}
	return false
}

// RemoteErrorDetail extracts the backend-provided message from a
// remote failure, if one was given.
func RemoteErrorDetail(err error) (string, bool) {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return "", false
	}
	detail, ok := rich.Metadata["detail"].(string)
	return detail, ok && detail != ""
}
