// Package token provides session-token primitives for Ward.
//
// It is the single source of truth for session-token issuance and hashing.
// The client holds an opaque random token in its cookie; the server keys
// session bindings by a hash of that token, so a leaked binding table never
// exposes usable session handles.
//
// Design goals:
// - Default dev/back-compat mode: SHA-256(token) when no HMAC key is configured.
// - Production-enforced mode: HMAC-SHA256(token, key) when policy requires it.
// - Stable 64-char hex output for storage.
//
// Environment:
// - WARD_TOKEN_HMAC_KEY: when set, enables HMAC mode.
// Policy:
//   - If RequireTokenHMAC=true, callers MUST enforce a minimum key size (>= 32 bytes)
//     and MUST use HMAC (no SHA fallback).
package token
