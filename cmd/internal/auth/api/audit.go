package api

import (
	"net/http"
	"strings"
)

// Audit events are structured log lines. They carry the internal outcome tag
// and the submitted identifier, never a password, salt, or hash.

func (h *Handler) auditRegistered(r *http.Request, userID, username string) {
	h.log.Info("auth.register.success",
		"user_id", userID,
		"username", username,
		"remote", r.RemoteAddr,
		"user_agent", strings.TrimSpace(r.UserAgent()),
	)
}

func (h *Handler) auditLoginSuccess(r *http.Request, userID, username string) {
	h.log.Info("auth.login.success",
		"user_id", userID,
		"username", username,
		"remote", r.RemoteAddr,
		"user_agent", strings.TrimSpace(r.UserAgent()),
	)
}

func (h *Handler) auditLoginFailed(r *http.Request, username, reason string) {
	// The reason tag stays in the logs; the client sees one opaque failure.
	h.log.Info("auth.login.failed",
		"username", username,
		"reason", reason,
		"remote", r.RemoteAddr,
		"user_agent", strings.TrimSpace(r.UserAgent()),
	)
}

func (h *Handler) auditLogout(r *http.Request) {
	h.log.Info("auth.logout",
		"remote", r.RemoteAddr,
		"user_agent", strings.TrimSpace(r.UserAgent()),
	)
}
