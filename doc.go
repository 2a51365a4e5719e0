// Package auth implements the client side of the StayFinder booking
// platform's session and authorization layer: bearer-token ingestion
// and payload decoding, role normalization, persisted session state,
// and the credential-recovery handshakes.
//
// Session lifecycle:
//   - AuthSession is the single owner of the "who is logged in" state.
//     It is constructed explicitly and injected into collaborators; it
//     exposes independent change notifications for the authenticated
//     flag and the current user, and every publication is a wholesale
//     replacement of the previous value.
//   - Bootstrap reconstructs the session from the persisted
//     SessionStore at process start. Login and the external-login
//     bridge feed freshly issued tokens through the same
//     decode-persist-publish path, so there is exactly one way to
//     become authenticated.
//
// Tokens:
//   - Tokens are decoded, never verified. The platform backend issues
//     and validates them; this package only reads the payload segment
//     to project a User snapshot. A token that fails to decode is
//     treated the same as no token at all.
//
// Recovery:
//   - RecoveryFlow drives the forgot-password and reset-password
//     handshakes against the backend. It shares no state with
//     AuthSession; after a successful reset the user signs in again
//     through the normal login path.
package auth
