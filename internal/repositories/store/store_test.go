package store_test

import (
	"context"
	"cuentas_claras/internal/models"
	"cuentas_claras/internal/repositories/store"
	"cuentas_claras/internal/repositories/store/storetest"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestStore(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	event := &models.Event{Name: "Viaje a Córdoba", Description: "fin de semana"}
	if err := s.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	var ana, beto models.Participant
	var food models.Category

	t.Run("CreateEvent fills defaults", func(t *testing.T) {
		if event.ID == 0 {
			t.Error("Expected event ID to be generated")
		}
		if event.Status != models.EventStatusActive {
			t.Errorf("Expected status active, got %q", event.Status)
		}
		if event.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := s.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if got.Name != event.Name || !got.CreatedAt.Equal(event.CreatedAt) {
			t.Errorf("GetEvent = %+v, want %+v", got, *event)
		}
	})

	t.Run("participants and categories", func(t *testing.T) {
		ana = models.Participant{EventID: event.ID, Name: "Ana", Email: "ana@example.com"}
		beto = models.Participant{EventID: event.ID, Name: "Beto"}
		for _, p := range []*models.Participant{&ana, &beto} {
			if err := s.CreateParticipant(ctx, p); err != nil {
				t.Fatalf("CreateParticipant failed: %v", err)
			}
		}

		list, err := s.ListParticipants(ctx, event.ID)
		if err != nil {
			t.Fatalf("ListParticipants failed: %v", err)
		}
		if len(list) != 2 || list[0].Name != "Ana" || list[1].Name != "Beto" {
			t.Errorf("ListParticipants = %+v", list)
		}

		food = models.Category{Name: "Comida"}
		if err := s.CreateCategory(ctx, &food); err != nil {
			t.Fatalf("CreateCategory failed: %v", err)
		}
		taken, err := s.CategoryNameTaken(ctx, "COMIDA")
		if err != nil || !taken {
			t.Errorf("CategoryNameTaken = %v, %v; want true", taken, err)
		}
	})

	t.Run("expense and debts round-trip exact amounts", func(t *testing.T) {
		exp := &models.Expense{
			EventID:       event.ID,
			ParticipantID: ana.ID,
			CategoryID:    &food.ID,
			Description:   "Asado",
			Amount:        decimal.RequireFromString("10.00"),
			SplitStrategy: "equal",
		}
		if err := s.CreateExpense(ctx, exp); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		debt := &models.Debt{
			EventID:             event.ID,
			ExpenseID:           exp.ID,
			ParticipantID:       beto.ID,
			OwedToParticipantID: ana.ID,
			Amount:              decimal.RequireFromString("3.33"),
		}
		if err := s.CreateDebt(ctx, debt); err != nil {
			t.Fatalf("CreateDebt failed: %v", err)
		}

		got, err := s.GetExpense(ctx, exp.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !got.Amount.Equal(exp.Amount) || got.CategoryID == nil || *got.CategoryID != food.ID {
			t.Errorf("GetExpense = %+v", got)
		}

		d, err := s.GetDebt(ctx, debt.ID)
		if err != nil {
			t.Fatalf("GetDebt failed: %v", err)
		}
		if !d.Amount.Equal(decimal.RequireFromString("3.33")) {
			t.Errorf("debt amount = %s, want 3.33", d.Amount)
		}
		if d.ParticipantName != "Beto" || d.OwedToDescription != "Ana" || d.Status != models.DebtStatusPending {
			t.Errorf("GetDebt = %+v", d)
		}
		if d.PaidAt != nil {
			t.Error("pending debt has a paid_at")
		}
	})

	t.Run("MarkDebtPaid only moves pending debts", func(t *testing.T) {
		debts, err := s.ListDebts(ctx, models.DebtFilter{EventID: event.ID, Status: models.DebtStatusPending})
		if err != nil || len(debts) != 1 {
			t.Fatalf("ListDebts = %v, %v", debts, err)
		}

		ok, err := s.MarkDebtPaid(ctx, debts[0].ID, time.Now())
		if err != nil || !ok {
			t.Fatalf("first MarkDebtPaid = %v, %v", ok, err)
		}
		ok, err = s.MarkDebtPaid(ctx, debts[0].ID, time.Now())
		if err != nil || ok {
			t.Fatalf("second MarkDebtPaid = %v, %v; want false", ok, err)
		}

		d, _ := s.GetDebt(ctx, debts[0].ID)
		if d.Status != models.DebtStatusPaid || d.PaidAt == nil {
			t.Errorf("debt after payment = %+v", d)
		}

		n, err := s.CountPaidDebts(ctx, d.ExpenseID)
		if err != nil || n != 1 {
			t.Errorf("CountPaidDebts = %d, %v", n, err)
		}
	})

	t.Run("participant in use", func(t *testing.T) {
		inUse, err := s.ParticipantInUse(ctx, beto.ID)
		if err != nil || !inUse {
			t.Errorf("ParticipantInUse = %v, %v; want true", inUse, err)
		}
	})

	t.Run("snapshot", func(t *testing.T) {
		snap, err := s.LoadEventSnapshot(ctx, event.ID)
		if err != nil {
			t.Fatalf("LoadEventSnapshot failed: %v", err)
		}
		if len(snap.Participants) != 2 || len(snap.Expenses) != 1 || len(snap.Debts) != 1 {
			t.Errorf("snapshot sizes: %d participants, %d expenses, %d debts",
				len(snap.Participants), len(snap.Expenses), len(snap.Debts))
		}
		if snap.Categories[food.ID] != "Comida" {
			t.Errorf("category names = %v", snap.Categories)
		}

		if _, err := s.LoadEventSnapshot(ctx, 999); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("missing event snapshot error = %v", err)
		}
	})

	t.Run("DeleteCategory uncategorizes expenses", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx *store.Store) error { return tx.DeleteCategory(ctx, food.ID) })
		if err != nil {
			t.Fatalf("DeleteCategory failed: %v", err)
		}
		expenses, _ := s.ListExpenses(ctx, event.ID)
		if expenses[0].CategoryID != nil {
			t.Errorf("expense still has category %d", *expenses[0].CategoryID)
		}
	})

	t.Run("DeleteEvent cascades", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx *store.Store) error { return tx.DeleteEvent(ctx, event.ID) })
		if err != nil {
			t.Fatalf("DeleteEvent failed: %v", err)
		}
		if _, err := s.GetEvent(ctx, event.ID); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("GetEvent after delete error = %v", err)
		}
		debts, _ := s.ListDebts(ctx, models.DebtFilter{})
		participants, _ := s.ListParticipants(ctx, 0)
		expenses, _ := s.ListExpenses(ctx, 0)
		if len(debts)+len(participants)+len(expenses) != 0 {
			t.Errorf("leftovers: %d debts, %d participants, %d expenses", len(debts), len(participants), len(expenses))
		}
	})
}

func TestWithTxRollsBack(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.CreateEvent(ctx, &models.Event{Name: "temp"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx error = %v, want boom", err)
	}

	events, err := s.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("rolled back transaction left %d events", len(events))
	}
}

func TestPendingReminders(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	ev := &models.Event{Name: "Cena"}
	s.CreateEvent(ctx, ev)
	payer := &models.Participant{EventID: ev.ID, Name: "Payer"}
	withMail := &models.Participant{EventID: ev.ID, Name: "Mail", Email: "mail@example.com"}
	noMail := &models.Participant{EventID: ev.ID, Name: "NoMail"}
	for _, p := range []*models.Participant{payer, withMail, noMail} {
		if err := s.CreateParticipant(ctx, p); err != nil {
			t.Fatalf("CreateParticipant failed: %v", err)
		}
	}
	exp := &models.Expense{EventID: ev.ID, ParticipantID: payer.ID, Description: "x", Amount: decimal.NewFromInt(9), SplitStrategy: "equal"}
	if err := s.CreateExpense(ctx, exp); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	for _, p := range []*models.Participant{withMail, noMail} {
		d := &models.Debt{EventID: ev.ID, ExpenseID: exp.ID, ParticipantID: p.ID, OwedToParticipantID: payer.ID, Amount: decimal.NewFromInt(3)}
		if err := s.CreateDebt(ctx, d); err != nil {
			t.Fatalf("CreateDebt failed: %v", err)
		}
	}

	reminders, err := s.PendingReminders(ctx)
	if err != nil {
		t.Fatalf("PendingReminders failed: %v", err)
	}
	if len(reminders) != 1 {
		t.Fatalf("got %d reminders, want 1", len(reminders))
	}
	r := reminders[0]
	if r.Email != "mail@example.com" || r.EventName != "Cena" || r.OwedTo != "Payer" || !r.Amount.Equal(decimal.NewFromInt(3)) {
		t.Errorf("reminder = %+v", r)
	}
}
