package memstore

import (
	"context"
	"fmt"

	domain "github.com/mohammadpnp/roster-import/internal/domain/roster"
)

// txStore is the RosterStore handed to a unit of work. It enforces the same
// constraints as the relational schema.
type txStore struct {
	t          tables
	savepoints map[string]tables
}

var _ domain.RosterStore = (*txStore)(nil)

func (tx *txStore) id() uint {
	tx.t.nextID++
	return tx.t.nextID
}

func violation(entity, constraint string) error {
	return &domain.PersistenceConstraintError{Entity: entity, Constraint: constraint}
}

func (tx *txStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	for _, a := range tx.t.accounts {
		if a.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (tx *txStore) ContactExists(ctx context.Context, contact string) (bool, error) {
	for _, a := range tx.t.accounts {
		if a.Email == contact {
			return true, nil
		}
	}
	for _, g := range tx.t.guardians {
		if g.Contact == contact {
			return true, nil
		}
	}
	return false, nil
}

func (tx *txStore) FindGuardianByPhone(ctx context.Context, phone int) (domain.Guardian, error) {
	for _, g := range tx.t.guardians {
		if g.Phone == phone {
			return g, nil
		}
	}
	return domain.Guardian{}, domain.ErrNotFound
}

func (tx *txStore) CreateAccount(ctx context.Context, account domain.Account) (domain.Account, error) {
	for _, a := range tx.t.accounts {
		if a.Username == account.Username {
			return domain.Account{}, violation("account", "accounts_username_key")
		}
		if account.Email != "" && a.Email == account.Email {
			return domain.Account{}, violation("account", "accounts_email_key")
		}
	}
	account.ID = tx.id()
	tx.t.accounts = append(tx.t.accounts, account)
	return account, nil
}

func (tx *txStore) CreateGuardian(ctx context.Context, guardian domain.Guardian) (domain.Guardian, error) {
	if guardian.Phone < 100000000 || guardian.Phone > 999999999 {
		return domain.Guardian{}, violation("guardian", "guardians_phone_check")
	}
	if !tx.hasAccount(guardian.AccountID) {
		return domain.Guardian{}, violation("guardian", "guardians_account_id_fkey")
	}
	for _, g := range tx.t.guardians {
		if g.Phone == guardian.Phone {
			return domain.Guardian{}, violation("guardian", "guardians_phone_key")
		}
		if g.Contact == guardian.Contact {
			return domain.Guardian{}, violation("guardian", "guardians_contact_key")
		}
	}
	guardian.ID = tx.id()
	tx.t.guardians = append(tx.t.guardians, guardian)
	return guardian, nil
}

func (tx *txStore) FindStudent(ctx context.Context, guardianID uint, firstName, lastName string) (domain.Student, error) {
	for _, s := range tx.t.students {
		if s.GuardianID == guardianID && s.FirstName == firstName && s.LastName == lastName {
			return s, nil
		}
	}
	return domain.Student{}, domain.ErrNotFound
}

func (tx *txStore) CreateStudent(ctx context.Context, student domain.Student) (domain.Student, error) {
	if !student.Gender.Valid() {
		return domain.Student{}, &domain.PersistenceConstraintError{
			Entity:     "student",
			Constraint: "students_gender_check",
			Err:        fmt.Errorf("gender %q is not one of M, F", student.Gender),
		}
	}
	if !tx.hasGuardian(student.GuardianID) {
		return domain.Student{}, violation("student", "students_guardian_id_fkey")
	}
	if _, err := tx.FindStudent(ctx, student.GuardianID, student.FirstName, student.LastName); err == nil {
		return domain.Student{}, violation("student", "students_guardian_name_key")
	}
	student.ID = tx.id()
	tx.t.students = append(tx.t.students, student)
	return student, nil
}

func (tx *txStore) FindGroupByName(ctx context.Context, name string) (domain.Group, error) {
	for _, g := range tx.t.groups {
		if g.Name == name {
			return g, nil
		}
	}
	return domain.Group{}, domain.ErrNotFound
}

func (tx *txStore) CreateGroup(ctx context.Context, group domain.Group) (domain.Group, error) {
	if _, err := tx.FindGroupByName(ctx, group.Name); err == nil {
		return domain.Group{}, violation("group", "groups_name_key")
	}
	group.ID = tx.id()
	tx.t.groups = append(tx.t.groups, group)
	return group, nil
}

func (tx *txStore) AddGroupMember(ctx context.Context, groupID, studentID uint) error {
	if !tx.hasGroup(groupID) {
		return violation("group membership", "group_memberships_group_id_fkey")
	}
	if !tx.hasStudent(studentID) {
		return violation("group membership", "group_memberships_student_id_fkey")
	}
	tx.t.memberships[membership{groupID: groupID, studentID: studentID}] = struct{}{}
	return nil
}

func (tx *txStore) Savepoint(ctx context.Context, name string) error {
	tx.savepoints[name] = tx.t.clone()
	return nil
}

func (tx *txStore) RollbackTo(ctx context.Context, name string) error {
	snapshot, ok := tx.savepoints[name]
	if !ok {
		return fmt.Errorf("savepoint %q does not exist", name)
	}
	tx.t = snapshot.clone()
	return nil
}

func (tx *txStore) ReleaseSavepoint(ctx context.Context, name string) error {
	if _, ok := tx.savepoints[name]; !ok {
		return fmt.Errorf("savepoint %q does not exist", name)
	}
	delete(tx.savepoints, name)
	return nil
}

func (tx *txStore) hasAccount(id uint) bool {
	for _, a := range tx.t.accounts {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (tx *txStore) hasGuardian(id uint) bool {
	for _, g := range tx.t.guardians {
		if g.ID == id {
			return true
		}
	}
	return false
}

func (tx *txStore) hasStudent(id uint) bool {
	for _, s := range tx.t.students {
		if s.ID == id {
			return true
		}
	}
	return false
}

func (tx *txStore) hasGroup(id uint) bool {
	for _, g := range tx.t.groups {
		if g.ID == id {
			return true
		}
	}
	return false
}
