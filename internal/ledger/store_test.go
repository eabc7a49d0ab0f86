package ledger

import (
	"reflect"
	"testing"
	"time"

	"finboard/internal/models"
	"finboard/internal/testutil"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func coffee() models.TransactionFields {
	return models.TransactionFields{
		Description: "Coffee shop",
		Amount:      4.5,
		Category:    "Food",
		Date:        "2025-03-01",
		Type:        models.TransactionTypeExpense,
	}
}

func TestInsert(t *testing.T) {
	t.Run("assigns_sequential_ids_and_prepends", func(t *testing.T) {
		s := New()

		first, err := s.Insert(coffee())
		testutil.AssertNoError(t, err)
		second, err := s.Insert(coffee())
		testutil.AssertNoError(t, err)

		if first.ID != "rec_0001" || second.ID != "rec_0002" {
			t.Fatalf("unexpected ids %q, %q", first.ID, second.ID)
		}
		if s.RecordCounter() != 3 {
			t.Errorf("expected counter 3, got %d", s.RecordCounter())
		}

		list := s.List()
		if len(list) != 2 || list[0].ID != "rec_0002" || list[1].ID != "rec_0001" {
			t.Errorf("expected newest first, got %+v", list)
		}
	})

	t.Run("sets_timestamps", func(t *testing.T) {
		at := time.Date(2025, 3, 1, 10, 30, 0, 123456789, time.UTC)
		s := New(WithClock(fixedClock(at)))

		tx, err := s.Insert(coffee())
		testutil.AssertNoError(t, err)

		want := at.Truncate(time.Millisecond)
		if !tx.CreatedAt.Equal(want) || !tx.UpdatedAt.Equal(want) {
			t.Errorf("expected timestamps %v, got %v / %v", want, tx.CreatedAt, tx.UpdatedAt)
		}
	})

	t.Run("rejects_malformed_fields", func(t *testing.T) {
		s := New()
		bad := []models.TransactionFields{
			{Description: " padded", Amount: 1, Category: "Food", Date: "2025-03-01", Type: models.TransactionTypeIncome},
			{Description: "ok", Amount: -1, Category: "Food", Date: "2025-03-01", Type: models.TransactionTypeIncome},
			{Description: "ok", Amount: 1, Category: "F00d", Date: "2025-03-01", Type: models.TransactionTypeIncome},
			{Description: "ok", Amount: 1, Category: "Food", Date: "03/01/2025", Type: models.TransactionTypeIncome},
		}
		for i, f := range bad {
			if _, err := s.Insert(f); err == nil {
				t.Errorf("case %d: expected error", i)
			} else {
				testutil.AssertAppError(t, err, "INVALID_INPUT")
			}
		}

		_, err := s.Insert(models.TransactionFields{Description: "ok", Amount: 1, Category: "Food", Date: "2025-03-01", Type: "refund"})
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")

		if s.RecordCounter() != 1 || s.Len() != 0 {
			t.Errorf("failed inserts must not change the store")
		}
	})
}

func TestUpdate(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	edited := created.Add(2 * time.Hour)
	now := created
	s := New(WithClock(func() time.Time { return now }))

	tx, err := s.Insert(coffee())
	testutil.AssertNoError(t, err)

	now = edited
	updated, err := s.Update(tx.ID, models.TransactionFields{
		Description: "Salary",
		Amount:      2500,
		Category:    "Work",
		Date:        "2025-03-02",
		Type:        models.TransactionTypeIncome,
	})
	testutil.AssertNoError(t, err)

	if updated.ID != tx.ID || !updated.CreatedAt.Equal(created) {
		t.Errorf("id and createdAt must be preserved, got %+v", updated)
	}
	if !updated.UpdatedAt.Equal(edited) {
		t.Errorf("expected updatedAt %v, got %v", edited, updated.UpdatedAt)
	}
	if updated.Type != models.TransactionTypeIncome || updated.Amount != 2500 {
		t.Errorf("fields not replaced: %+v", updated)
	}

	got, err := s.Get(tx.ID)
	testutil.AssertNoError(t, err)
	if !reflect.DeepEqual(got, updated) {
		t.Errorf("stored record differs from returned record")
	}

	t.Run("unknown_id", func(t *testing.T) {
		_, err := s.Update("rec_9999", coffee())
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDelete(t *testing.T) {
	s := New()
	a, _ := s.Insert(coffee())
	b, _ := s.Insert(coffee())

	removed, err := s.Delete(a.ID)
	testutil.AssertNoError(t, err)
	if removed.ID != a.ID {
		t.Errorf("expected removed %s, got %s", a.ID, removed.ID)
	}

	before := s.List()
	_, err = s.Delete(a.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	if !reflect.DeepEqual(before, s.List()) {
		t.Error("deleting an unknown id must leave the list unchanged")
	}

	c, _ := s.Insert(coffee())
	if c.ID != "rec_0003" {
		t.Errorf("ids must never be reused, got %s", c.ID)
	}
	if list := s.List(); len(list) != 2 || list[1].ID != b.ID {
		t.Errorf("unexpected list after delete: %+v", list)
	}
}

func TestListIsSnapshot(t *testing.T) {
	s := New()
	_, _ = s.Insert(coffee())

	first := s.List()
	second := s.List()
	if !reflect.DeepEqual(first, second) {
		t.Fatal("list must be stable without mutation")
	}

	first[0].Description = "mutated"
	if s.List()[0].Description != "Coffee shop" {
		t.Error("callers must not be able to mutate stored records")
	}
}

func TestUpdateSettings(t *testing.T) {
	s := New()

	eur := models.CurrencyEUR
	got, err := s.UpdateSettings(models.SettingsPatch{CurrentCurrency: &eur})
	testutil.AssertNoError(t, err)
	if got.CurrentCurrency != models.CurrencyEUR || got.ExpenseCap != 1000 {
		t.Errorf("unexpected settings %+v", got)
	}

	gbp := models.Currency("GBP")
	_, err = s.UpdateSettings(models.SettingsPatch{CurrentCurrency: &gbp})
	testutil.AssertAppError(t, err, "INVALID_CURRENCY")

	zero := 0.0
	_, err = s.UpdateSettings(models.SettingsPatch{ExpenseCap: &zero})
	testutil.AssertAppError(t, err, "INVALID_SETTINGS")

	if s.Settings().CurrentCurrency != models.CurrencyEUR || s.Settings().ExpenseCap != 1000 {
		t.Errorf("rejected updates must not apply, got %+v", s.Settings())
	}
}

func TestRestore(t *testing.T) {
	s := New()
	s.Restore(models.Snapshot{
		Transactions: []models.Transaction{
			{ID: "rec_0007", Description: "Taxi", Amount: 12, Category: "Transport", Date: "2025-03-01", Type: models.TransactionTypeExpense},
			{ID: "legacy", Description: "Rent", Amount: 800, Category: "Home", Date: "2025-03-01", Type: models.TransactionTypeExpense},
		},
		Settings:      models.DefaultSettings(),
		RecordCounter: 3,
	})

	if s.RecordCounter() != 8 {
		t.Errorf("expected counter to move past restored ids, got %d", s.RecordCounter())
	}

	tx, err := s.Insert(coffee())
	testutil.AssertNoError(t, err)
	if tx.ID != "rec_0008" {
		t.Errorf("expected rec_0008, got %s", tx.ID)
	}
}

func TestFormatID(t *testing.T) {
	if FormatID(12) != "rec_0012" || FormatID(12345) != "rec_12345" {
		t.Errorf("unexpected id formatting: %s %s", FormatID(12), FormatID(12345))
	}
}
