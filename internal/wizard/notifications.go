package wizard

import (
	"strings"

	"github.com/desertthunder/podx/internal/models"
)

// NotificationsEditor edits the email settings of a draft snapshot.
type NotificationsEditor struct {
	draft    models.Draft
	onChange OnChange
}

// Notifications builds the notifications step editor.
func Notifications(d models.Draft, onChange OnChange) NotificationsEditor {
	return NotificationsEditor{draft: d, onChange: onChange}
}

// Settings returns the draft's email settings.
func (e NotificationsEditor) Settings() models.EmailSettings {
	return e.draft.Email
}

// ToggleEnabled flips email delivery on or off. Kind choices and the address are kept.
func (e NotificationsEditor) ToggleEnabled() {
	s := e.draft.Email
	s.Enabled = !s.Enabled
	e.onChange(models.EmailPatch(s))
}

// SetAddress replaces the email address.
func (e NotificationsEditor) SetAddress(addr string) {
	s := e.draft.Email
	s.Address = strings.TrimSpace(addr)
	e.onChange(models.EmailPatch(s))
}

// ToggleKind flips one digest kind.
func (e NotificationsEditor) ToggleKind(k models.NotificationKind) {
	s := e.draft.Email
	e.onChange(models.EmailPatch(s.WithKind(k, !s.Kind(k))))
}
