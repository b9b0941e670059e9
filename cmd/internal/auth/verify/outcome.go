package verify

// Kind tags the result of a credential verification.
//
// Only KindSuccess vs "everything else" may ever be visible to a client.
// The finer tags exist for internal diagnostics: callers must collapse
// KindNoSuchUser and KindWrongPassword into a single opaque
// invalid-credentials signal before crossing the system boundary, or the
// distinction becomes a username enumeration oracle.
type Kind int

const (
	// KindSuccess carries the matched record's identifier.
	KindSuccess Kind = iota
	// KindNoSuchUser means no record matched the username.
	KindNoSuchUser
	// KindWrongPassword means the record exists but the password did not match.
	KindWrongPassword
	// KindStoreError means the credential store failed or timed out.
	KindStoreError
)

// Outcome is the tagged result of Verifier.Verify. Not a boolean.
type Outcome struct {
	Kind   Kind
	UserID string // set only for KindSuccess
	Cause  error  // set only for KindStoreError
}

// Authenticated reports whether the outcome is a success.
func (o Outcome) Authenticated() bool { return o.Kind == KindSuccess }

// Tag returns a stable lowercase label for logs and metrics.
func (o Outcome) Tag() string {
	switch o.Kind {
	case KindSuccess:
		return "success"
	case KindNoSuchUser:
		return "no_such_user"
	case KindWrongPassword:
		return "wrong_password"
	case KindStoreError:
		return "store_error"
	default:
		return "unknown"
	}
}
