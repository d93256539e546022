package services

import (
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/pkg/errs"
)

// Mailbox is a team address plus the addresses always copied on mail to it.
type Mailbox struct {
	Address string
	CC      []string
}

// NotificationConfig holds the team mailboxes. The installer mailbox is the
// shared installation-team address used when an assigned installer has no
// email of their own.
type NotificationConfig struct {
	Mailboxes map[notification.Category]Mailbox
	TrackURL  string
}

// ParseMailboxes reads "category=address|cc1|cc2;category=address" as used
// by the NOTIFY_MAILBOXES setting.
func ParseMailboxes(raw string) (map[notification.Category]Mailbox, error) {
	out := make(map[notification.Category]Mailbox)
	for _, item := range strings.Split(raw, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		name, rest, ok := strings.Cut(item, "=")
		if !ok {
			return nil, errs.NewValueIsInvalidErrorWithCause("mailboxes", fmt.Errorf("entry %q has no '='", item))
		}
		category := notification.Category(strings.ToLower(strings.TrimSpace(name)))
		if err := category.Validate(); err != nil {
			return nil, err
		}
		if category == notification.CategoryCustomer {
			return nil, errs.NewValueIsInvalidErrorWithCause("mailboxes", fmt.Errorf("customer addresses come from the order"))
		}

		parts := strings.Split(rest, "|")
		mb := Mailbox{Address: strings.TrimSpace(parts[0])}
		for _, cc := range parts[1:] {
			if cc = strings.TrimSpace(cc); cc != "" {
				mb.CC = append(mb.CC, cc)
			}
		}
		if mb.Address == "" {
			return nil, errs.NewValueIsRequiredError(fmt.Sprintf("%s mailbox address", category))
		}
		out[category] = mb
	}
	return out, nil
}
