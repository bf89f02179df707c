package roster

import "time"

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Account is the credential set created for a guardian on first encounter.
type Account struct {
	ID           uint
	Username     string
	Email        string
	PasswordHash []byte
}

type Guardian struct {
	ID          uint
	AccountID   uint
	Phone       int
	Contact     string
	DisplayName string
	ImportRunID *string
}

type Student struct {
	ID          uint
	FirstName   string
	LastName    string
	Gender      Gender
	Note        string
	GuardianID  uint
	ImportRunID *string
}

type Group struct {
	ID          uint
	Name        string
	ImportRunID *string
}

type ImportRun struct {
	ID         string
	SourcePath string
	CreatedAt  time.Time
	Errors     []RowError
}

// Succeeded reports whether the run committed. Only failed runs carry row errors.
func (r ImportRun) Succeeded() bool {
	return len(r.Errors) == 0
}

type RowError struct {
	ID          uint
	ImportRunID string
	RowIndex    int
	RawRow      string
	Detail      string
}
