package mailer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

type recordSender struct {
	mu   sync.Mutex
	sent []sentMail
	ch   chan sentMail
	err  error
}

func newRecordSender() *recordSender {
	return &recordSender{ch: make(chan sentMail, 8)}
}

func (r *recordSender) Send(to, subject, body string) error {
	r.mu.Lock()
	r.sent = append(r.sent, sentMail{to, subject, body})
	r.mu.Unlock()
	r.ch <- sentMail{to, subject, body}
	return r.err
}

func (r *recordSender) wait(t *testing.T) sentMail {
	t.Helper()
	select {
	case m := <-r.ch:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no mail dispatched")
		return sentMail{}
	}
}

func TestItemPendingGoesToPoster(t *testing.T) {
	sender := newRecordSender()
	n := NewNotifier(sender, "admin@example.com", "http://localhost:3000")

	n.ItemPending(ItemInfo{
		Title:       "Blue Backpack",
		TypeLabel:   "Lost Item",
		Category:    "Bags & Backpacks",
		Location:    "University Library",
		Date:        "2025-01-15",
		PosterName:  "Juan",
		PosterEmail: "juan@psu.palawan.edu.ph",
	})

	m := sender.wait(t)
	require.Equal(t, "juan@psu.palawan.edu.ph", m.to)
	require.Contains(t, m.subject, "pending for approval")
	require.Contains(t, m.body, "Blue Backpack")
	require.Contains(t, m.body, "University Library")
}

func TestAdminNoticesGoToAdminGroup(t *testing.T) {
	sender := newRecordSender()
	n := NewNotifier(sender, "admin@example.com", "http://localhost:3000")

	item := ItemInfo{Title: "Car Keys", TypeLabel: "Found Item", PosterName: "Ana", PosterEmail: "ana@psu.palawan.edu.ph"}
	n.AdminNewItem(item)
	m := sender.wait(t)
	require.Equal(t, "admin@example.com", m.to)
	require.Contains(t, m.subject, "awaiting review")

	n.AdminContentUpdated(item)
	m = sender.wait(t)
	require.Equal(t, "admin@example.com", m.to)
	require.Contains(t, m.body, "pending review")
}

func TestRoleChangedNamesActingAdmin(t *testing.T) {
	sender := newRecordSender()
	n := NewNotifier(sender, "admin@example.com", "http://localhost:3000")

	n.RoleChanged("user@psu.palawan.edu.ph", "Maria", "verified", "admin@psu.palawan.edu.ph")
	m := sender.wait(t)
	require.Contains(t, m.body, `"verified"`)
	require.Contains(t, m.body, "admin@psu.palawan.edu.ph")
}

func TestTransportFailureIsSwallowed(t *testing.T) {
	sender := newRecordSender()
	sender.err = errors.New("smtp down")
	n := NewNotifier(sender, "admin@example.com", "http://localhost:3000")

	// Must not panic or surface the error; dispatch only logs it.
	n.ItemApproved(ItemInfo{Title: "Wallet", TypeLabel: "Lost Item", PosterEmail: "x@y.z"})
	sender.wait(t)
}
