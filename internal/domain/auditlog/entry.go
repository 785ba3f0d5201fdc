// Package auditlog records administrative mutations. Entries are append-only.
package auditlog

import (
	"errors"
	"strings"
	"time"
)

// Action names stored in admin_logs.action.
const (
	ActionWebsiteCreated       = "website_created"
	ActionWebsiteUpdated       = "website_updated"
	ActionWebsiteDeleted       = "website_deleted"
	ActionCreditsAdd           = "credits_add"
	ActionCreditsDeduct        = "credits_deduct"
	ActionCreditsReset         = "credits_reset"
	ActionCreditsSync          = "credits_sync"
	ActionRenewSubscription    = "renew_subscription"
	ActionRegenerateLicenseKey = "regenerate_license_key"
	ActionMessengerConnected   = "messenger_connected"
	ActionMessengerDisconnect  = "messenger_disconnected"
)

var ErrInvalidEntry = errors.New("audit entry requires an action")

// Entry is one immutable audit record. UserID is nil for actions triggered by
// the plugin rather than a staff member.
type Entry struct {
	id        uint
	websiteID *uint
	userID    *uint
	action    string
	oldValue  map[string]any
	newValue  map[string]any
	reason    string
	createdAt time.Time
}

// NewEntry builds an entry stamped with the current time.
func NewEntry(websiteID, userID *uint, action string, oldValue, newValue map[string]any, reason string) (*Entry, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, ErrInvalidEntry
	}
	return &Entry{
		websiteID: websiteID,
		userID:    userID,
		action:    action,
		oldValue:  oldValue,
		newValue:  newValue,
		reason:    reason,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructEntry rebuilds an entry from storage.
func ReconstructEntry(id uint, websiteID, userID *uint, action string, oldValue, newValue map[string]any, reason string, createdAt time.Time) *Entry {
	return &Entry{
		id:        id,
		websiteID: websiteID,
		userID:    userID,
		action:    action,
		oldValue:  oldValue,
		newValue:  newValue,
		reason:    reason,
		createdAt: createdAt,
	}
}

func (e *Entry) ID() uint                 { return e.id }
func (e *Entry) WebsiteID() *uint         { return e.websiteID }
func (e *Entry) UserID() *uint            { return e.userID }
func (e *Entry) Action() string           { return e.action }
func (e *Entry) OldValue() map[string]any { return e.oldValue }
func (e *Entry) NewValue() map[string]any { return e.newValue }
func (e *Entry) Reason() string           { return e.reason }
func (e *Entry) CreatedAt() time.Time     { return e.createdAt }

// SetID sets the entry ID (only for persistence layer use)
func (e *Entry) SetID(id uint) {
	e.id = id
}
