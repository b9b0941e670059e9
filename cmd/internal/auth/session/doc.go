// Package session implements Ward's session-identity binding.
//
// A session binding associates an opaque session identifier with a credential
// record's durable identifier — never with the password, salt, or hash. On
// every request the Binder resolves the binding *and* re-looks the identifier
// up in the credential store, so a deleted account is unauthenticated on its
// next request without any session-invalidation sweep.
//
// The package also owns the session layer itself: cookie transport, opaque
// token issuance, and the per-request authentication gate.
package session
