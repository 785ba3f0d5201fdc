package website

import (
	"strings"
	"time"
)

// MessengerBinding ties a website to one Facebook Page.
type MessengerBinding struct {
	PageID          string
	PageName        string
	PageAccessToken string
	TokenExpiresAt  time.Time
}

func (b MessengerBinding) Validate() error {
	if strings.TrimSpace(b.PageID) == "" || b.PageAccessToken == "" {
		return ErrInvalidMessengerBinding
	}
	return nil
}

// CheckMessengerEligibility returns ErrPlanNotSupported or ErrAccountInactive
// when the site may not connect a Page.
func (w *Website) CheckMessengerEligibility() error {
	if !w.plan.SupportsMessenger() {
		return ErrPlanNotSupported
	}
	if w.status != StatusActive {
		return ErrAccountInactive
	}
	return nil
}

// ConnectMessenger stores the binding and enables Messenger.
func (w *Website) ConnectMessenger(b MessengerBinding) error {
	if err := b.Validate(); err != nil {
		return err
	}
	b.TokenExpiresAt = b.TokenExpiresAt.UTC()
	w.messenger = &b
	w.messengerEnabled = true
	w.touch()
	return nil
}

// DisconnectMessenger clears the binding. It reports false when there was
// nothing to clear.
func (w *Website) DisconnectMessenger() bool {
	if !w.messengerEnabled && w.messenger == nil {
		return false
	}
	w.messenger = nil
	w.messengerEnabled = false
	w.touch()
	return true
}

// MessengerConnected is true only for an enabled flag with a page id and token.
func (w *Website) MessengerConnected() bool {
	return w.messengerEnabled && w.messenger != nil &&
		w.messenger.PageID != "" && w.messenger.PageAccessToken != ""
}

// HasMessengerState reports whether any Messenger field is set, even when the
// binding is incomplete.
func (w *Website) HasMessengerState() bool {
	return w.messengerEnabled || w.messenger != nil
}

func (w *Website) MessengerEnabled() bool { return w.messengerEnabled }

// Messenger returns a copy of the binding, or nil.
func (w *Website) Messenger() *MessengerBinding {
	if w.messenger == nil {
		return nil
	}
	b := *w.messenger
	return &b
}

// FacebookPageID returns the bound page id or "".
func (w *Website) FacebookPageID() string {
	if w.messenger == nil {
		return ""
	}
	return w.messenger.PageID
}

// SetPageName caches a page name looked up after the fact.
func (w *Website) SetPageName(name string) {
	if w.messenger == nil || name == "" {
		return
	}
	w.messenger.PageName = name
}
