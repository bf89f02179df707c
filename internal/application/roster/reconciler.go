package roster

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	domain "github.com/mohammadpnp/roster-import/internal/domain/roster"
)

const maxDetailLen = 4000

type ReconcilerConfig struct {
	Layout                domain.Layout
	MaxIdentifierAttempts int
	// PasswordCost is the bcrypt cost for initial guardian passwords.
	PasswordCost int
}

// Reconciler turns spreadsheet rows into guardians, students and groups,
// reusing records that already exist.
type Reconciler struct {
	cfg         ReconcilerConfig
	newPassword func() string
}

func NewReconciler(cfg ReconcilerConfig) *Reconciler {
	if cfg.MaxIdentifierAttempts <= 0 {
		cfg.MaxIdentifierAttempts = domain.DefaultMaxIdentifierAttempts
	}
	if cfg.PasswordCost == 0 {
		cfg.PasswordCost = bcrypt.DefaultCost
	}
	if cfg.Layout == (domain.Layout{}) {
		cfg.Layout = domain.DefaultLayout()
	}

	return &Reconciler{
		cfg:         cfg,
		newPassword: rand.Text,
	}
}

// RowOutcome is the result of one data row: either the entities it resolved
// to or the error that stopped it.
type RowOutcome struct {
	Index int

	Guardian        domain.Guardian
	GuardianCreated bool
	Student         domain.Student
	StudentCreated  bool
	Group           *domain.Group
	GroupCreated    bool

	Err error
}

type ReconcileReport struct {
	RowsProcessed    int
	GuardiansCreated int
	StudentsCreated  int
	GroupsCreated    int
	Errors           []domain.RowError
}

func (r ReconcileReport) Failed() bool {
	return len(r.Errors) > 0
}

// Reconcile processes every data row in file order. rows[0] is the header.
// A failing row is recorded and the scan moves on; RowIndex counts data rows
// from zero.
func (r *Reconciler) Reconcile(ctx context.Context, store domain.RosterStore, rows [][]string, run domain.ImportRun) ReconcileReport {
	report := ReconcileReport{}
	if len(rows) < 2 {
		return report
	}

	gen := domain.NewIdentifierGenerator(store, domain.WithMaxAttempts(r.cfg.MaxIdentifierAttempts))

	for index, raw := range rows[1:] {
		if isBlankRow(raw) {
			continue
		}
		report.RowsProcessed++

		outcome := r.reconcileRow(ctx, store, gen, run, index, raw)
		if outcome.Err != nil {
			report.Errors = append(report.Errors, domain.RowError{
				ImportRunID: run.ID,
				RowIndex:    index,
				RawRow:      encodeRawRow(raw),
				Detail:      rowErrorDetail(outcome.Err),
			})
			continue
		}

		if outcome.GuardianCreated {
			report.GuardiansCreated++
		}
		if outcome.StudentCreated {
			report.StudentsCreated++
		}
		if outcome.GroupCreated {
			report.GroupsCreated++
		}
	}

	return report
}

func (r *Reconciler) reconcileRow(ctx context.Context, store domain.RosterStore, gen *domain.IdentifierGenerator, run domain.ImportRun, index int, raw []string) RowOutcome {
	outcome := RowOutcome{Index: index}

	// Parsing may query the store for placeholder contacts, so it runs under
	// the savepoint too.
	savepoint := fmt.Sprintf("row_%d", index)
	if err := store.Savepoint(ctx, savepoint); err != nil {
		outcome.Err = pkgerrors.Wrap(err, "open row savepoint")
		return outcome
	}

	err := r.parseAndPersistRow(ctx, store, gen, run, raw, &outcome)
	if err != nil {
		if rbErr := store.RollbackTo(ctx, savepoint); rbErr != nil {
			err = errors.Join(err, pkgerrors.Wrap(rbErr, "roll back row savepoint"))
		}
	}
	if relErr := store.ReleaseSavepoint(ctx, savepoint); relErr != nil {
		err = errors.Join(err, pkgerrors.Wrap(relErr, "release row savepoint"))
	}
	outcome.Err = err
	return outcome
}

func (r *Reconciler) parseAndPersistRow(ctx context.Context, store domain.RosterStore, gen *domain.IdentifierGenerator, run domain.ImportRun, raw []string, outcome *RowOutcome) error {
	parsed, err := domain.ParseRow(ctx, raw, r.cfg.Layout, gen)
	if err != nil {
		return err
	}
	return r.persistRow(ctx, store, gen, run, parsed, outcome)
}

func (r *Reconciler) persistRow(ctx context.Context, store domain.RosterStore, gen *domain.IdentifierGenerator, run domain.ImportRun, row domain.ParsedRow, outcome *RowOutcome) error {
	runID := run.ID

	guardian, created, err := r.findOrCreateGuardian(ctx, store, gen, row, runID)
	if err != nil {
		return pkgerrors.Wrap(err, "find or create guardian")
	}
	outcome.Guardian, outcome.GuardianCreated = guardian, created

	student, created, err := findOrCreateStudent(ctx, store, guardian, row, runID)
	if err != nil {
		return pkgerrors.Wrap(err, "find or create student")
	}
	outcome.Student, outcome.StudentCreated = student, created

	if !row.HasGroup() {
		return nil
	}

	group, created, err := findOrCreateGroup(ctx, store, row.GroupName, runID)
	if err != nil {
		return pkgerrors.Wrap(err, "find or create group")
	}
	outcome.Group, outcome.GroupCreated = &group, created

	if err := store.AddGroupMember(ctx, group.ID, student.ID); err != nil {
		return pkgerrors.Wrap(err, "add student to group")
	}
	return nil
}

func (r *Reconciler) findOrCreateGuardian(ctx context.Context, store domain.RosterStore, gen *domain.IdentifierGenerator, row domain.ParsedRow, runID string) (domain.Guardian, bool, error) {
	guardian, err := store.FindGuardianByPhone(ctx, row.Phone)
	if err == nil {
		return guardian, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Guardian{}, false, err
	}

	username, err := gen.UniqueUsername(ctx, row.GuardianFirstName, row.GuardianLastName)
	if err != nil {
		return domain.Guardian{}, false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.newPassword()), r.cfg.PasswordCost)
	if err != nil {
		return domain.Guardian{}, false, fmt.Errorf("hash initial password: %w", err)
	}

	account, err := store.CreateAccount(ctx, domain.Account{
		Username:     username,
		Email:        row.Contact,
		PasswordHash: hash,
	})
	if err != nil {
		return domain.Guardian{}, false, err
	}

	guardian, err = store.CreateGuardian(ctx, domain.Guardian{
		AccountID:   account.ID,
		Phone:       row.Phone,
		Contact:     row.Contact,
		DisplayName: row.GuardianFirstName + " " + row.GuardianLastName,
		ImportRunID: &runID,
	})
	if err != nil {
		return domain.Guardian{}, false, err
	}
	return guardian, true, nil
}

func findOrCreateStudent(ctx context.Context, store domain.RosterStore, guardian domain.Guardian, row domain.ParsedRow, runID string) (domain.Student, bool, error) {
	student, err := store.FindStudent(ctx, guardian.ID, row.StudentFirstName, row.StudentLastName)
	if err == nil {
		return student, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Student{}, false, err
	}

	student, err = store.CreateStudent(ctx, domain.Student{
		FirstName:   row.StudentFirstName,
		LastName:    row.StudentLastName,
		Gender:      row.Gender,
		Note:        row.Note,
		GuardianID:  guardian.ID,
		ImportRunID: &runID,
	})
	if err != nil {
		return domain.Student{}, false, err
	}
	return student, true, nil
}

func findOrCreateGroup(ctx context.Context, store domain.RosterStore, name, runID string) (domain.Group, bool, error) {
	group, err := store.FindGroupByName(ctx, name)
	if err == nil {
		return group, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Group{}, false, err
	}

	group, err = store.CreateGroup(ctx, domain.Group{Name: name, ImportRunID: &runID})
	if err != nil {
		return domain.Group{}, false, err
	}
	return group, true, nil
}

// rowErrorDetail keeps validation messages short and gives everything else a
// stack trace for the operator.
func rowErrorDetail(err error) string {
	var rowErr *domain.RowValidationError
	if errors.As(err, &rowErr) {
		return truncateDetail(rowErr.Error())
	}
	return truncateDetail(fmt.Sprintf("%+v", err))
}

func truncateDetail(detail string) string {
	detail = strings.TrimSpace(detail)
	if len(detail) <= maxDetailLen {
		return detail
	}
	return detail[:maxDetailLen]
}

func encodeRawRow(raw []string) string {
	if raw == nil {
		raw = []string{}
	}
	out, err := json.Marshal(raw)
	if err != nil {
		return strings.Join(raw, "\t")
	}
	return string(out)
}

func isBlankRow(raw []string) bool {
	for _, c := range raw {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
