package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the supported transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// DateLayout is the calendar date format used by Transaction.Date.
const DateLayout = "2006-01-02"

// Transaction represents a single income or expense record.
// The JSON shape is the persisted shape of the finance snapshot.
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Type        TransactionType `json:"type"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TransactionFields holds the mutable fields of a transaction.
type TransactionFields struct {
	Description string
	Amount      float64
	Category    string
	Date        string
	Type        TransactionType
}

// Fields returns the mutable fields of t.
func (t Transaction) Fields() TransactionFields {
	return TransactionFields{
		Description: t.Description,
		Amount:      t.Amount,
		Category:    t.Category,
		Date:        t.Date,
		Type:        t.Type,
	}
}
