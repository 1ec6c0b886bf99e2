package mailer

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"
)

// Sender delivers a single mail. The SMTP implementation is swapped out for
// a recorder in tests.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends mail through a gomail dialer.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

// ItemInfo carries the item fields the mail templates need, so the mailer
// does not depend on the items package.
type ItemInfo struct {
	Title       string
	TypeLabel   string // "Lost Item" or "Found Item"
	Category    string
	Location    string
	Date        string
	PosterName  string
	PosterEmail string
}

// Notifier builds and dispatches the outbound notices triggered by
// lifecycle and role transitions. Every dispatch is fire-and-forget: a
// transport failure is logged and never propagated, since the state
// transition that triggered it is already committed.
type Notifier struct {
	sender      Sender
	adminEmail  string
	frontendURL string
}

func NewNotifier(sender Sender, adminEmail, frontendURL string) *Notifier {
	return &Notifier{
		sender:      sender,
		adminEmail:  adminEmail,
		frontendURL: frontendURL,
	}
}

func (n *Notifier) dispatch(to, subject, body string) {
	go func() {
		if err := n.sender.Send(to, subject, body); err != nil {
			log.Printf("mailer: failed to send %q to %s: %v", subject, to, err)
		}
	}()
}

// ItemPending notifies the poster that the submission is awaiting review.
func (n *Notifier) ItemPending(item ItemInfo) {
	subject := fmt.Sprintf("Your %s is pending for approval - PalSU HanApp", item.TypeLabel)
	body := fmt.Sprintf(`Hello %s,

Thank you for posting your %s "%s" on PalSU HanApp!

Your item has been submitted and is currently pending for approval. You will receive another email once it has been reviewed.

Item Details:
- Title: %s
- Category: %s
- Location: %s
- Date: %s

Thank you for using PalSU HanApp

---
This is an automated message from PalSU HanApp Lost and Found System
`, item.PosterName, item.TypeLabel, item.Title, item.Title, item.Category, item.Location, item.Date)

	n.dispatch(item.PosterEmail, subject, body)
}

// ItemApproved notifies the poster that the listing is now public.
func (n *Notifier) ItemApproved(item ItemInfo) {
	subject := fmt.Sprintf("Your %s has been approved! - PalSU HanApp", item.TypeLabel)
	body := fmt.Sprintf(`Hello %s,

Great news! Your %s "%s" has been approved and is now visible to everyone on PalSU HanApp.

Interested users can now see your post and contact you through the app if they have information about your item.

View your listing: %s

Thank you for using PalSU HanApp - together we're helping PalSUans reunite with their belongings!

---
This is an automated message from PalSU HanApp Lost and Found System
`, item.PosterName, item.TypeLabel, item.Title, n.frontendURL)

	n.dispatch(item.PosterEmail, subject, body)
}

// ItemRejected notifies the poster that the submission was declined.
func (n *Notifier) ItemRejected(item ItemInfo) {
	subject := fmt.Sprintf("Your %s submission - PalSU HanApp", item.TypeLabel)
	body := fmt.Sprintf(`Hello %s,

We've reviewed your %s "%s" and unfortunately it does not meet our posting guidelines at this time.

Common reasons for rejection:
- Insufficient or unclear description
- Inappropriate content
- Duplicate posting
- Missing required information

If you believe this was a mistake, please contact our admin team at %s

Thank you for your understanding and for using PalSU HanApp.

---
This is an automated message from PalSU HanApp Lost and Found System
`, item.PosterName, item.TypeLabel, item.Title, n.adminEmail)

	n.dispatch(item.PosterEmail, subject, body)
}

// ItemArchived notifies the poster that an admin removed the listing.
func (n *Notifier) ItemArchived(item ItemInfo, reason string) {
	subject := fmt.Sprintf("Your %s has been removed - PalSU HanApp", item.TypeLabel)
	body := fmt.Sprintf(`Hello %s,

Your %s "%s" has been removed from PalSU HanApp by an administrator.

Reason: %s

If you have questions about this decision, please contact our admin team at %s

---
This is an automated message from PalSU HanApp Lost and Found System
`, item.PosterName, item.TypeLabel, item.Title, reason, n.adminEmail)

	n.dispatch(item.PosterEmail, subject, body)
}

// RoleChanged notifies a user that an admin changed their role.
func (n *Notifier) RoleChanged(email, name, newRole, changedBy string) {
	subject := "Your account role has been updated - PalSU HanApp"
	body := fmt.Sprintf(`Hello %s,

Your PalSU HanApp account role has been changed to "%s" by %s.

If you believe this change was made in error, please contact our admin team at %s

---
This is an automated message from PalSU HanApp Lost and Found System
`, name, newRole, changedBy, n.adminEmail)

	n.dispatch(email, subject, body)
}

// AdminNewItem tells the admin group a new submission is waiting for review.
func (n *Notifier) AdminNewItem(item ItemInfo) {
	subject := fmt.Sprintf("New %s awaiting review - PalSU HanApp", item.TypeLabel)
	body := fmt.Sprintf(`A new %s "%s" was posted by %s (%s) and is awaiting moderation.

- Category: %s
- Location: %s
- Date: %s
`, item.TypeLabel, item.Title, item.PosterName, item.PosterEmail, item.Category, item.Location, item.Date)

	n.dispatch(n.adminEmail, subject, body)
}

// AdminContentUpdated tells the admin group an approved listing was edited
// and has re-entered moderation.
func (n *Notifier) AdminContentUpdated(item ItemInfo) {
	subject := fmt.Sprintf("Edited %s needs re-review - PalSU HanApp", item.TypeLabel)
	body := fmt.Sprintf(`The %s "%s" posted by %s (%s) was edited by its owner and has been moved back to pending review.
`, item.TypeLabel, item.Title, item.PosterName, item.PosterEmail)

	n.dispatch(n.adminEmail, subject, body)
}
