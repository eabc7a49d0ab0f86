package search

import (
	"slices"
	"strings"

	"finboard/internal/models"
)

// Field is a sortable transaction column.
type Field string

const (
	FieldDescription Field = "description"
	FieldAmount      Field = "amount"
	FieldCategory    Field = "category"
	FieldDate        Field = "date"
	FieldType        Field = "type"
	FieldID          Field = "id"
	FieldCreatedAt   Field = "createdAt"
	FieldUpdatedAt   Field = "updatedAt"
)

// Valid reports whether f names a sortable column.
func (f Field) Valid() bool {
	switch f {
	case FieldDescription, FieldAmount, FieldCategory, FieldDate, FieldType,
		FieldID, FieldCreatedAt, FieldUpdatedAt:
		return true
	}
	return false
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Valid reports whether d is asc or desc.
func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

// SortState is the active table sort. The zero value means unsorted.
type SortState struct {
	Field     Field     `json:"field,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Toggle returns the state after a sort request on field: the same field
// flips direction, a new field starts ascending.
func (s SortState) Toggle(field Field) SortState {
	if s.Field == field {
		if s.Direction == Asc {
			return SortState{Field: field, Direction: Desc}
		}
		return SortState{Field: field, Direction: Asc}
	}
	return SortState{Field: field, Direction: Asc}
}

// Sort returns a sorted copy of txs. Amounts compare numerically,
// description and category compare case-insensitively and every other field
// compares its raw value. Equal keys keep their input order in both
// directions. An unknown field returns the copy unsorted.
func Sort(txs []models.Transaction, field Field, dir Direction) []models.Transaction {
	out := slices.Clone(txs)
	if !field.Valid() {
		return out
	}

	slices.SortStableFunc(out, func(a, b models.Transaction) int {
		c := compare(a, b, field)
		if dir == Desc {
			return -c
		}
		return c
	})
	return out
}

func compare(a, b models.Transaction, field Field) int {
	switch field {
	case FieldAmount:
		switch {
		case a.Amount < b.Amount:
			return -1
		case a.Amount > b.Amount:
			return 1
		}
		return 0
	case FieldDescription:
		return strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
	case FieldCategory:
		return strings.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category))
	case FieldDate:
		return strings.Compare(a.Date, b.Date)
	case FieldType:
		return strings.Compare(string(a.Type), string(b.Type))
	case FieldID:
		return strings.Compare(a.ID, b.ID)
	case FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case FieldUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
	return 0
}
