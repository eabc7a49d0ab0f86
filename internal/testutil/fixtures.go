package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"finboard/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// FixtureTime is the createdAt/updatedAt stamped on fixture records.
var FixtureTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// NewTransaction builds a stored-shape record with a unique fixture id.
func NewTransaction(description string, amount float64, category, date string, typ models.TransactionType) models.Transaction {
	return models.Transaction{
		ID:          fmt.Sprintf("fx_%04d", nextID()),
		Description: description,
		Amount:      amount,
		Category:    category,
		Date:        date,
		Type:        typ,
		CreatedAt:   FixtureTime,
		UpdatedAt:   FixtureTime,
	}
}

// Expense is shorthand for an expense fixture.
func Expense(description string, amount float64, category, date string) models.Transaction {
	return NewTransaction(description, amount, category, date, models.TransactionTypeExpense)
}

// Income is shorthand for an income fixture.
func Income(description string, amount float64, category, date string) models.Transaction {
	return NewTransaction(description, amount, category, date, models.TransactionTypeIncome)
}

// SampleLedger returns a small newest-first list covering both types and
// several categories.
func SampleLedger() []models.Transaction {
	return []models.Transaction{
		Expense("Taxi home", 12, "Transport", "2025-03-03"),
		Expense("Morning coffee", 4.5, "Food", "2025-03-02"),
		Income("Salary", 2500, "Work", "2025-03-01"),
		Expense("Groceries", 80, "Food", "2025-03-01"),
	}
}
