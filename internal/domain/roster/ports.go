package roster

import "context"

// ExistenceOracle answers whether an account identifier is already taken.
type ExistenceOracle interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	ContactExists(ctx context.Context, contact string) (bool, error)
}

// RosterStore is the view of persistence the reconciler works against. Every
// write goes through the unit of work that handed the store out.
type RosterStore interface {
	ExistenceOracle

	FindGuardianByPhone(ctx context.Context, phone int) (Guardian, error)
	CreateAccount(ctx context.Context, account Account) (Account, error)
	CreateGuardian(ctx context.Context, guardian Guardian) (Guardian, error)

	FindStudent(ctx context.Context, guardianID uint, firstName, lastName string) (Student, error)
	CreateStudent(ctx context.Context, student Student) (Student, error)

	FindGroupByName(ctx context.Context, name string) (Group, error)
	CreateGroup(ctx context.Context, group Group) (Group, error)
	// AddGroupMember is idempotent.
	AddGroupMember(ctx context.Context, groupID, studentID uint) error

	Savepoint(ctx context.Context, name string) error
	RollbackTo(ctx context.Context, name string) error
	// ReleaseSavepoint forgets a savepoint, keeping the writes made since.
	ReleaseSavepoint(ctx context.Context, name string) error
}

// UnitOfWork runs fn atomically: a nil return commits every write made through
// the store, any error discards them all and is returned unchanged.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, store RosterStore) error) error
}

// ImportRunRepository persists runs and their row errors. Writes made here are
// independent of any UnitOfWork.
type ImportRunRepository interface {
	CreateRun(ctx context.Context, run ImportRun) (ImportRun, error)
	SaveRowErrors(ctx context.Context, runID string, rowErrors []RowError) error
	GetRun(ctx context.Context, runID string) (ImportRun, error)
}
