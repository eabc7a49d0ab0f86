// Package persistence serializes the transaction store to a key-value medium
// and validates persisted or imported payloads before they are accepted.
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	apperrors "finboard/internal/errors"
	"finboard/internal/models"
	"finboard/internal/storage"
)

// DefaultKey is the medium key the snapshot is stored under.
const DefaultKey = "financeData"

// Adapter reads and writes the finance snapshot under a single key.
type Adapter struct {
	kv       storage.KV
	key      string
	defaults models.Settings
}

// New returns an adapter over kv. defaults seed the settings when nothing is
// persisted and fill any field a partial settings payload leaves out.
func New(kv storage.KV, key string, defaults models.Settings) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{kv: kv, key: key, defaults: defaults}
}

// Empty is the state a store starts from when nothing usable is persisted.
func (a *Adapter) Empty() models.Snapshot {
	return models.Snapshot{
		Transactions:  []models.Transaction{},
		Settings:      a.defaults,
		RecordCounter: 1,
	}
}

// Save writes snap to the medium.
func (a *Adapter) Save(ctx context.Context, snap models.Snapshot) error {
	b, err := Encode(snap)
	if err != nil {
		return err
	}
	if err := a.kv.Set(ctx, a.key, b); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load reads the medium. A missing key yields Empty with a nil error. A
// payload that fails shape validation yields Empty together with an
// INVALID_IMPORT error; the caller decides whether to log it.
func (a *Adapter) Load(ctx context.Context) (models.Snapshot, error) {
	b, ok, err := a.kv.Get(ctx, a.key)
	if err != nil {
		return a.Empty(), fmt.Errorf("load snapshot: %w", err)
	}
	if !ok {
		return a.Empty(), nil
	}
	snap, err := a.Decode(b)
	if err != nil {
		return a.Empty(), err
	}
	return snap, nil
}

// Encode renders snap in the persisted JSON shape.
func Encode(snap models.Snapshot) ([]byte, error) {
	if snap.Transactions == nil {
		snap.Transactions = []models.Transaction{}
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// Decode validates the shape of a persisted or imported payload and builds
// a snapshot from it. The payload must be an object whose transactions field
// is a list; every element needs a non-empty id, description and date and a
// numeric amount. Settings are merged field by field over the defaults and
// the record counter falls back to 1 when missing or not positive.
func (a *Adapter) Decode(raw []byte) (models.Snapshot, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return models.Snapshot{}, invalid("payload must be a JSON object", err)
	}

	txRaw, ok := top["transactions"]
	if !ok || !isArray(txRaw) {
		return models.Snapshot{}, invalid("transactions must be a list", nil)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(txRaw, &elems); err != nil {
		return models.Snapshot{}, invalid("transactions must be a list", err)
	}

	txs := make([]models.Transaction, 0, len(elems))
	for i, elem := range elems {
		t, err := decodeTransaction(elem)
		if err != nil {
			return models.Snapshot{}, invalid(fmt.Sprintf("transaction %d: %v", i, err), err)
		}
		txs = append(txs, t)
	}

	return models.Snapshot{
		Transactions:  txs,
		Settings:      a.mergeSettings(top["settings"]),
		RecordCounter: decodeCounter(top["recordCounter"]),
	}, nil
}

func decodeTransaction(elem json.RawMessage) (models.Transaction, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
		return models.Transaction{}, fmt.Errorf("must be an object")
	}

	var t models.Transaction
	required := []struct {
		name string
		dst  *string
	}{
		{"id", &t.ID},
		{"description", &t.Description},
		{"date", &t.Date},
	}
	for _, f := range required {
		if err := json.Unmarshal(fields[f.name], f.dst); err != nil || *f.dst == "" {
			return models.Transaction{}, fmt.Errorf("%s is required", f.name)
		}
	}
	if err := json.Unmarshal(fields["amount"], &t.Amount); err != nil || isNull(fields["amount"]) {
		return models.Transaction{}, fmt.Errorf("amount is required")
	}

	// The remaining fields are taken when well formed and left zero otherwise.
	t.Category = optionalString(fields["category"])
	t.Type = models.TransactionType(optionalString(fields["type"]))
	t.CreatedAt = optionalTime(fields["createdAt"])
	t.UpdatedAt = optionalTime(fields["updatedAt"])
	return t, nil
}

func optionalString(raw json.RawMessage) string {
	var s string
	if raw == nil || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func optionalTime(raw json.RawMessage) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, optionalString(raw))
	if err != nil {
		return time.Time{}
	}
	return ts
}

// mergeSettings overlays every well-formed field of raw on the defaults.
// Fields that are malformed or out of range keep their default value.
func (a *Adapter) mergeSettings(raw json.RawMessage) models.Settings {
	s := a.defaults
	var fields map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil {
		return s
	}

	for name, dst := range map[string]*float64{
		"expenseCap": &s.ExpenseCap,
		"eurRate":    &s.EURRate,
		"rwfRate":    &s.RWFRate,
	} {
		var v float64
		if json.Unmarshal(fields[name], &v) == nil && v > 0 && !math.IsInf(v, 0) {
			*dst = v
		}
	}

	var c models.Currency
	if json.Unmarshal(fields["currentCurrency"], &c) == nil && c.Valid() {
		s.CurrentCurrency = c
	}
	return s
}

func decodeCounter(raw json.RawMessage) int {
	var n float64
	if len(raw) == 0 || json.Unmarshal(raw, &n) != nil || n < 1 || n > math.MaxInt32 {
		return 1
	}
	return int(n)
}

func isArray(raw json.RawMessage) bool {
	b := bytes.TrimSpace(raw)
	return len(b) > 0 && b[0] == '['
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func invalid(message string, internal error) error {
	e := apperrors.WithMessage(apperrors.ErrInvalidImport, apperrors.ErrInvalidImport.Message+": "+message)
	e.Internal = internal
	return e
}
