package models

import (
	"fmt"
	"time"
)

// Audit action types. The set is closed; AuditRepo rejects anything else.
const (
	ActionAdd    = "ADD"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionLogin  = "LOGIN"
	ActionLogout = "LOGOUT"
	// ActionAccess marks a rejected authorization attempt.
	ActionAccess = "ACCESS"
)

// ValidAction reports whether a is one of the allowed audit action types.
func ValidAction(a string) bool {
	switch a {
	case ActionAdd, ActionUpdate, ActionDelete, ActionLogin, ActionLogout, ActionAccess:
		return true
	}
	return false
}

// AuditEntry represents one append-only audit log row.
type AuditEntry struct {
	ID            int       `json:"id"`
	Username      string    `json:"username"`
	UpdatedObject string    `json:"updated_object"`
	ActionType    string    `json:"action_type"`
	Details       string    `json:"details,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// ExportLine renders the entry in the flat text export format. The field
// order is fixed; no machine consumer depends on it.
func (e AuditEntry) ExportLine() string {
	return fmt.Sprintf("Log ID: %d | User: %s | Updated object: %s | Action: %s | Details: %s | Time: %s",
		e.ID, e.Username, e.UpdatedObject, e.ActionType, e.Details, e.Timestamp.Format(time.RFC3339))
}
