package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/mohammadpnp/roster-import/internal/domain/roster"
	"github.com/mohammadpnp/roster-import/internal/infrastructure/db/models"
)

// RosterRepository runs roster writes inside one database transaction.
type RosterRepository struct {
	db *gorm.DB
}

var _ domain.UnitOfWork = (*RosterRepository)(nil)

func NewRosterRepository(db *gorm.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) Within(ctx context.Context, fn func(ctx context.Context, store domain.RosterStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &rosterStore{db: tx})
	})
}

type rosterStore struct {
	db *gorm.DB
}

func (s *rosterStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Account{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count accounts by username: %w", err)
	}
	return count > 0, nil
}

func (s *rosterStore) ContactExists(ctx context.Context, contact string) (bool, error) {
	var exists bool
	err := s.db.WithContext(ctx).Raw(`
SELECT EXISTS (SELECT 1 FROM accounts WHERE email = @contact)
    OR EXISTS (SELECT 1 FROM guardians WHERE contact = @contact)
`, map[string]any{"contact": contact}).Scan(&exists).Error
	if err != nil {
		return false, fmt.Errorf("check contact: %w", err)
	}
	return exists, nil
}

func (s *rosterStore) FindGuardianByPhone(ctx context.Context, phone int) (domain.Guardian, error) {
	var row models.Guardian
	if err := s.db.WithContext(ctx).Where("phone = ?", phone).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Guardian{}, domain.ErrNotFound
		}
		return domain.Guardian{}, fmt.Errorf("find guardian by phone: %w", err)
	}
	return toDomainGuardian(row), nil
}

func (s *rosterStore) CreateAccount(ctx context.Context, account domain.Account) (domain.Account, error) {
	row := models.Account{
		Username:     account.Username,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Account{}, classify("create", "account", err)
	}
	account.ID = row.ID
	return account, nil
}

func (s *rosterStore) CreateGuardian(ctx context.Context, guardian domain.Guardian) (domain.Guardian, error) {
	row := models.Guardian{
		AccountID:   guardian.AccountID,
		Phone:       guardian.Phone,
		Contact:     guardian.Contact,
		DisplayName: guardian.DisplayName,
		ImportRunID: guardian.ImportRunID,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Guardian{}, classify("create", "guardian", err)
	}
	return toDomainGuardian(row), nil
}

func (s *rosterStore) FindStudent(ctx context.Context, guardianID uint, firstName, lastName string) (domain.Student, error) {
	var row models.Student
	err := s.db.WithContext(ctx).
		Where("guardian_id = ? AND first_name = ? AND last_name = ?", guardianID, firstName, lastName).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Student{}, domain.ErrNotFound
		}
		return domain.Student{}, fmt.Errorf("find student: %w", err)
	}
	return toDomainStudent(row), nil
}

func (s *rosterStore) CreateStudent(ctx context.Context, student domain.Student) (domain.Student, error) {
	row := models.Student{
		GuardianID:  student.GuardianID,
		FirstName:   student.FirstName,
		LastName:    student.LastName,
		Gender:      string(student.Gender),
		Note:        student.Note,
		ImportRunID: student.ImportRunID,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Student{}, classify("create", "student", err)
	}
	return toDomainStudent(row), nil
}

func (s *rosterStore) FindGroupByName(ctx context.Context, name string) (domain.Group, error) {
	var row models.Group
	if err := s.db.WithContext(ctx).Where("name = ?", name).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Group{}, domain.ErrNotFound
		}
		return domain.Group{}, fmt.Errorf("find group by name: %w", err)
	}
	return toDomainGroup(row), nil
}

func (s *rosterStore) CreateGroup(ctx context.Context, group domain.Group) (domain.Group, error) {
	row := models.Group{Name: group.Name, ImportRunID: group.ImportRunID}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Group{}, classify("create", "group", err)
	}
	return toDomainGroup(row), nil
}

func (s *rosterStore) AddGroupMember(ctx context.Context, groupID, studentID uint) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.GroupMembership{GroupID: groupID, StudentID: studentID}).Error
	if err != nil {
		return classify("create", "group membership", err)
	}
	return nil
}

func (s *rosterStore) Savepoint(ctx context.Context, name string) error {
	if err := s.db.WithContext(ctx).SavePoint(name).Error; err != nil {
		return fmt.Errorf("savepoint %s: %w", name, err)
	}
	return nil
}

func (s *rosterStore) RollbackTo(ctx context.Context, name string) error {
	if err := s.db.WithContext(ctx).RollbackTo(name).Error; err != nil {
		return fmt.Errorf("rollback to savepoint %s: %w", name, err)
	}
	return nil
}

// ReleaseSavepoint has no gorm helper, so the statement is issued directly.
// Savepoint names come from the reconciler, never from input.
func (s *rosterStore) ReleaseSavepoint(ctx context.Context, name string) error {
	if err := s.db.WithContext(ctx).Exec("RELEASE SAVEPOINT " + name).Error; err != nil {
		return fmt.Errorf("release savepoint %s: %w", name, err)
	}
	return nil
}

func toDomainGuardian(row models.Guardian) domain.Guardian {
	return domain.Guardian{
		ID:          row.ID,
		AccountID:   row.AccountID,
		Phone:       row.Phone,
		Contact:     row.Contact,
		DisplayName: row.DisplayName,
		ImportRunID: row.ImportRunID,
	}
}

func toDomainStudent(row models.Student) domain.Student {
	return domain.Student{
		ID:          row.ID,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		Gender:      domain.Gender(row.Gender),
		Note:        row.Note,
		GuardianID:  row.GuardianID,
		ImportRunID: row.ImportRunID,
	}
}

func toDomainGroup(row models.Group) domain.Group {
	return domain.Group{
		ID:          row.ID,
		Name:        row.Name,
		ImportRunID: row.ImportRunID,
	}
}
