package core

import "time"

// Collection names a persisted record list. The value doubles as its storage key.
type Collection string

const (
	Expenses Collection = "expenses"
	Incomes  Collection = "incomes"
)

func (c Collection) String() string { return string(c) }

// ChangeOp is the kind of mutation applied to a collection.
type ChangeOp string

const (
	OpCreate ChangeOp = "create"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
)

// Change describes one persisted mutation of the ledger.
type Change struct {
	Collection Collection
	Op         ChangeOp
	RecordID   int64
	Revision   uint64
	At         time.Time
}
