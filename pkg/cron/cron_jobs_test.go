package cron

import (
	"context"
	"cuentas_claras/internal/repositories/store"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeSource struct {
	rows []store.PendingReminder
	err  error
}

func (f fakeSource) PendingReminders(context.Context) ([]store.PendingReminder, error) {
	return f.rows, f.err
}

type sentEmail struct {
	to, subject, body string
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []sentEmail
	failTo string
}

func (f *fakeSender) SendEmail(to, subject, body string, _ ...string) error {
	if to == f.failTo {
		return errors.New("smtp unavailable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEmail{to, subject, body})
	return nil
}

func (f *fakeSender) byRecipient() map[string]sentEmail {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]sentEmail, len(f.sent))
	for _, e := range f.sent {
		out[e.to] = e
	}
	return out
}

func reminder(id int64, name, email, event, owedTo, amount string) store.PendingReminder {
	return store.PendingReminder{
		ParticipantID: id,
		Name:          name,
		Email:         email,
		EventName:     event,
		OwedTo:        owedTo,
		Amount:        decimal.RequireFromString(amount),
		Since:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestSendReminderEmailsGroupsByParticipant(t *testing.T) {
	src := fakeSource{rows: []store.PendingReminder{
		reminder(2, "Beto", "beto@example.com", "Asado", "Ana", "3.33"),
		reminder(2, "Beto", "beto@example.com", "Viaje", "Carla", "10"),
		reminder(3, "Dani", "dani@example.com", "Asado", "Ana", "3.33"),
	}}
	sender := &fakeSender{}

	sent, err := SendReminderEmailsToDebtors(context.Background(), src, sender)
	if err != nil {
		t.Fatalf("SendReminderEmailsToDebtors failed: %v", err)
	}
	if sent != 2 {
		t.Fatalf("sent = %d, want 2", sent)
	}

	got := sender.byRecipient()
	beto, ok := got["beto@example.com"]
	if !ok {
		t.Fatalf("no e-mail for Beto: %v", got)
	}
	if !strings.Contains(beto.subject, "13.33") {
		t.Errorf("subject = %q, want the 13.33 total", beto.subject)
	}
	for _, want := range []string{"Asado", "Viaje", "Carla", "3.33", "10.00"} {
		if !strings.Contains(beto.body, want) {
			t.Errorf("body does not mention %q", want)
		}
	}
}

func TestSendReminderEmailsReportsFailures(t *testing.T) {
	src := fakeSource{rows: []store.PendingReminder{
		reminder(2, "Beto", "beto@example.com", "Asado", "Ana", "3.33"),
		reminder(3, "Dani", "dani@example.com", "Asado", "Ana", "3.33"),
	}}
	sender := &fakeSender{failTo: "dani@example.com"}

	sent, err := SendReminderEmailsToDebtors(context.Background(), src, sender)
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("error = %v, want one failure reported", err)
	}
	if sent != 1 {
		t.Errorf("sent = %d, want 1", sent)
	}
}

func TestSendReminderEmailsSourceError(t *testing.T) {
	sent, err := SendReminderEmailsToDebtors(context.Background(), fakeSource{err: errors.New("db down")}, &fakeSender{})
	if err == nil || sent != 0 {
		t.Errorf("sent = %d, err = %v", sent, err)
	}
}

func TestStartCronJobRejectsBadSchedule(t *testing.T) {
	if _, err := StartCronJob(Jobs{ReminderSchedule: "every day", Source: fakeSource{}, Sender: &fakeSender{}}); err == nil {
		t.Error("expected an error for an invalid schedule")
	}

	c, err := StartCronJob(Jobs{ReminderSchedule: "0 9 * * *", Source: fakeSource{}, Sender: &fakeSender{}})
	if err != nil {
		t.Fatalf("StartCronJob failed: %v", err)
	}
	if n := len(c.Entries()); n != 1 {
		t.Errorf("entries = %d, want 1", n)
	}
	c.Stop()
}
