package goBlog

import (
	"context"
)

const (
	auditEventSessionResolved = "session_resolved"
	auditEventSessionPurged   = "session_purged"
	auditEventLogout          = "logout"
	auditEventGateBlocked     = "gate_blocked"
	auditEventLoginSuccess    = "login_success"
	auditEventLoginFailure    = "login_failure"
	auditEventPostWrite       = "post_write"
)

// AuditErrorCode is the coarse failure class recorded in audit events. Raw
// error strings never reach the sink because they may echo backend bodies.
type AuditErrorCode string

const (
	auditErrTokenMalformed     AuditErrorCode = "token_malformed"
	auditErrTokenExpired       AuditErrorCode = "token_expired"
	auditErrProfileUnavailable AuditErrorCode = "profile_unavailable"
	auditErrStoreUnavailable   AuditErrorCode = "store_unavailable"
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrLoginRequired      AuditErrorCode = "login_required"
	auditErrSessionExpired     AuditErrorCode = "session_expired"
	auditErrPermissionDenied   AuditErrorCode = "permission_denied"
	auditErrNotFound           AuditErrorCode = "not_found"
	auditErrValidation         AuditErrorCode = "validation"
	auditErrBackend            AuditErrorCode = "backend_error"
)

func (c *Client) emitAudit(ctx context.Context, eventType string, success bool, user User, code AuditErrorCode, metadata map[string]string) {
	if c == nil || c.audit == nil {
		return
	}

	c.audit.Emit(ctx, AuditEvent{
		EventType: eventType,
		RequestID: RequestIDFromContext(ctx),
		Username:  user.Username,
		UserID:    user.ID,
		Success:   success,
		Error:     string(code),
		Metadata:  metadata,
	})
}
