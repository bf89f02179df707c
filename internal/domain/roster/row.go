package roster

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const DefaultNoGroupPlaceholder = "None"

// Layout maps spreadsheet columns to row fields.
type Layout struct {
	GuardianFirstName int
	GuardianLastName  int
	StudentFirstName  int
	StudentLastName   int
	Gender            int
	Group             int
	Phone             int
	Contact           int
	Note              int

	// NoGroupPlaceholder in the group column means "do not link to a group".
	// Compared case-insensitively; a blank cell means the same.
	NoGroupPlaceholder string
}

func DefaultLayout() Layout {
	return Layout{
		GuardianFirstName:  0,
		GuardianLastName:   1,
		StudentFirstName:   2,
		StudentLastName:    3,
		Gender:             4,
		Group:              5,
		Phone:              6,
		Contact:            7,
		Note:               8,
		NoGroupPlaceholder: DefaultNoGroupPlaceholder,
	}
}

// FakeAddressSource supplies a placeholder contact for rows without one.
type FakeAddressSource interface {
	UniqueFakeAddress(ctx context.Context) (string, error)
}

type ParsedRow struct {
	GuardianFirstName string `validate:"required"`
	GuardianLastName  string `validate:"required"`
	StudentFirstName  string `validate:"required"`
	StudentLastName   string `validate:"required"`
	Gender            Gender
	// GroupName is empty when the row asks for no group linkage.
	GroupName string
	Phone     int    `validate:"min=100000000,max=999999999"`
	Contact   string `validate:"required,email"`
	Note      string
}

func (r ParsedRow) HasGroup() bool {
	return r.GroupName != ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var fieldColumns = map[string]string{
	"GuardianFirstName": "guardian_first_name",
	"GuardianLastName":  "guardian_last_name",
	"StudentFirstName":  "student_first_name",
	"StudentLastName":   "student_last_name",
	"Phone":             "phone",
	"Contact":           "contact",
}

// ParseRow maps one raw spreadsheet row onto typed fields. It stops at the
// first field it cannot interpret.
func ParseRow(ctx context.Context, raw []string, layout Layout, addresses FakeAddressSource) (ParsedRow, error) {
	row := ParsedRow{
		GuardianFirstName: capitalizeName(cell(raw, layout.GuardianFirstName)),
		GuardianLastName:  titleName(cell(raw, layout.GuardianLastName)),
		StudentFirstName:  capitalizeName(cell(raw, layout.StudentFirstName)),
		StudentLastName:   titleName(cell(raw, layout.StudentLastName)),
		Gender:            Gender(strings.ToUpper(cell(raw, layout.Gender))),
		Note:              cell(raw, layout.Note),
	}
	if row.StudentLastName == "" {
		row.StudentLastName = row.GuardianLastName
	}

	group := cell(raw, layout.Group)
	if !strings.EqualFold(group, layout.NoGroupPlaceholder) {
		row.GroupName = group
	}

	phone, err := parsePhone(cell(raw, layout.Phone))
	if err != nil {
		return ParsedRow{}, err
	}
	row.Phone = phone

	if contact := cell(raw, layout.Contact); contact != "" {
		row.Contact = strings.ToLower(contact)
	} else {
		fake, err := addresses.UniqueFakeAddress(ctx)
		if err != nil {
			return ParsedRow{}, fmt.Errorf("generate placeholder contact: %w", err)
		}
		row.Contact = fake
	}

	if err := validate.Struct(row); err != nil {
		return ParsedRow{}, toRowValidationError(err)
	}
	return row, nil
}

func parsePhone(s string) (int, error) {
	if s == "" {
		return 0, &RowValidationError{Field: "phone", Reason: "is required"}
	}
	phone, err := strconv.Atoi(s)
	if err != nil {
		return 0, &RowValidationError{Field: "phone", Value: s, Reason: "must be numeric"}
	}
	return phone, nil
}

func toRowValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &RowValidationError{Field: "row", Reason: err.Error()}
	}

	fe := fieldErrs[0]
	field, ok := fieldColumns[fe.Field()]
	if !ok {
		field = fe.Field()
	}

	out := &RowValidationError{Field: field}
	switch fe.Tag() {
	case "required":
		out.Reason = "is required"
	case "email":
		out.Reason = "must be a valid email address"
		out.Value = fmt.Sprint(fe.Value())
	case "min", "max":
		out.Reason = "must have exactly 9 digits"
		out.Value = fmt.Sprint(fe.Value())
	default:
		out.Reason = "failed " + fe.Tag() + " check"
		out.Value = fmt.Sprint(fe.Value())
	}
	return out
}

func cell(raw []string, idx int) string {
	if idx < 0 || idx >= len(raw) {
		return ""
	}
	return strings.TrimSpace(raw[idx])
}
