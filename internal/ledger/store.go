// Package ledger holds the in-memory transaction store: the ordered
// transaction records, the dashboard settings and the record-id counter.
package ledger

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "finboard/internal/errors"
	"finboard/internal/models"
	"finboard/internal/validator"
)

// Clock returns the current time. Tests inject a fixed clock.
type Clock func() time.Time

// Store owns every transaction record, the settings and the record counter.
// Records are kept newest first. Callers only ever receive copies.
type Store struct {
	mu           sync.RWMutex
	transactions []models.Transaction
	settings     models.Settings
	counter      int
	now          Clock
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for createdAt/updatedAt timestamps.
func WithClock(c Clock) Option {
	return func(s *Store) { s.now = c }
}

// WithSettings replaces the default settings.
func WithSettings(settings models.Settings) Option {
	return func(s *Store) { s.settings = settings }
}

// New creates an empty store with default settings and the counter at 1.
func New(opts ...Option) *Store {
	s := &Store{
		transactions: []models.Transaction{},
		settings:     models.DefaultSettings(),
		counter:      1,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FormatID renders a record id from a counter value.
func FormatID(n int) string {
	return fmt.Sprintf("rec_%04d", n)
}

// Insert creates a record from pre-validated, trimmed fields and prepends it.
// The record counter advances exactly once per successful insert.
func (s *Store) Insert(f models.TransactionFields) (models.Transaction, error) {
	if err := checkFields(f); err != nil {
		return models.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timestamp()
	t := models.Transaction{
		ID:          FormatID(s.counter),
		Description: f.Description,
		Amount:      f.Amount,
		Category:    f.Category,
		Date:        f.Date,
		Type:        f.Type,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.counter++

	s.transactions = append([]models.Transaction{t}, s.transactions...)
	return t, nil
}

// Update replaces the mutable fields of the record with the given id and
// refreshes its updatedAt. The id and createdAt are preserved.
func (s *Store) Update(id string, f models.TransactionFields) (models.Transaction, error) {
	if err := checkFields(f); err != nil {
		return models.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Transaction{}, apperrors.ErrTransactionNotFound
	}

	t := s.transactions[i]
	t.Description = f.Description
	t.Amount = f.Amount
	t.Category = f.Category
	t.Date = f.Date
	t.Type = f.Type
	t.UpdatedAt = s.timestamp()
	s.transactions[i] = t
	return t, nil
}

// Delete removes the record with the given id and returns it.
func (s *Store) Delete(id string) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Transaction{}, apperrors.ErrTransactionNotFound
	}

	removed := s.transactions[i]
	s.transactions = append(s.transactions[:i:i], s.transactions[i+1:]...)
	return removed, nil
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Transaction{}, apperrors.ErrTransactionNotFound
	}
	return s.transactions[i], nil
}

// List returns a copy of every record, newest first.
func (s *Store) List() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transactions)
}

// Settings returns the current settings.
func (s *Store) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings merges a partial update over the current settings.
// Every numeric setting must stay positive and the currency must be known.
func (s *Store) UpdateSettings(p models.SettingsPatch) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := p.Apply(s.settings)
	if !next.CurrentCurrency.Valid() {
		return s.settings, apperrors.ErrInvalidCurrency
	}
	if !positive(next.ExpenseCap) || !positive(next.EURRate) || !positive(next.RWFRate) {
		return s.settings, apperrors.ErrInvalidSettings
	}
	s.settings = next
	return next, nil
}

// RecordCounter returns the counter value the next insert will use.
func (s *Store) RecordCounter() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counter
}

// Snapshot returns a copy of the complete store state.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := make([]models.Transaction, len(s.transactions))
	copy(txs, s.transactions)
	return models.Snapshot{
		Transactions:  txs,
		Settings:      s.settings,
		RecordCounter: s.counter,
	}
}

// Restore replaces the store state with snap. The counter is moved past
// every restored rec_NNNN id so new ids never collide with old ones.
func (s *Store) Restore(snap models.Snapshot) {
	txs := make([]models.Transaction, len(snap.Transactions))
	copy(txs, snap.Transactions)

	counter := snap.RecordCounter
	if counter < 1 {
		counter = 1
	}
	for _, t := range txs {
		if n, ok := parseID(t.ID); ok && n >= counter {
			counter = n + 1
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = txs
	s.settings = snap.Settings
	s.counter = counter
}

func (s *Store) indexOf(id string) int {
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func parseID(id string) (int, bool) {
	digits, ok := strings.CutPrefix(id, "rec_")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// checkFields re-applies the input rules to typed fields so that direct
// callers cannot store malformed records.
func checkFields(f models.TransactionFields) error {
	switch {
	case f.Description != strings.TrimSpace(f.Description) || !validator.ValidateDescription(f.Description):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, validator.Message(validator.FieldDescription))
	case math.IsNaN(f.Amount) || math.IsInf(f.Amount, 0) || f.Amount < 0:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, validator.Message(validator.FieldAmount))
	case f.Category != strings.TrimSpace(f.Category) || !validator.ValidateCategory(f.Category):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, validator.Message(validator.FieldCategory))
	case !validator.ValidateDate(f.Date):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, validator.Message(validator.FieldDate))
	case !f.Type.Valid():
		return apperrors.ErrInvalidTransactionType
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
