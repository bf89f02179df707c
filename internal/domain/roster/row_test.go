package roster_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/mohammadpnp/roster-import/internal/domain/roster"
)

type fakeAddressSource struct {
	address string
	err     error
	calls   int
}

func (f *fakeAddressSource) UniqueFakeAddress(ctx context.Context) (string, error) {
	f.calls++
	return f.address, f.err
}

func validRaw() []string {
	return []string{" jan ", "KOWALSKI", "anna", "van damme", " f ", " G1 ", "123456789", " Jan@Example.COM ", " allergic to nuts "}
}

func TestParseRowValid(t *testing.T) {
	t.Parallel()

	addresses := &fakeAddressSource{}
	row, err := domain.ParseRow(context.Background(), validRaw(), domain.DefaultLayout(), addresses)
	require.NoError(t, err)

	assert.Equal(t, "Jan", row.GuardianFirstName)
	assert.Equal(t, "Kowalski", row.GuardianLastName)
	assert.Equal(t, "Anna", row.StudentFirstName)
	assert.Equal(t, "Van Damme", row.StudentLastName)
	assert.Equal(t, domain.GenderFemale, row.Gender)
	assert.Equal(t, "G1", row.GroupName)
	assert.True(t, row.HasGroup())
	assert.Equal(t, 123456789, row.Phone)
	assert.Equal(t, "jan@example.com", row.Contact)
	assert.Equal(t, "allergic to nuts", row.Note)
	assert.Zero(t, addresses.calls)
}

func TestParseRowStudentLastNameDefaultsToGuardian(t *testing.T) {
	t.Parallel()

	raw := validRaw()
	raw[3] = "  "

	row, err := domain.ParseRow(context.Background(), raw, domain.DefaultLayout(), &fakeAddressSource{})
	require.NoError(t, err)
	assert.Equal(t, "Kowalski", row.StudentLastName)
}

func TestParseRowNoGroupPlaceholder(t *testing.T) {
	t.Parallel()

	for _, group := range []string{"None", "none", " NONE ", ""} {
		raw := validRaw()
		raw[5] = group

		row, err := domain.ParseRow(context.Background(), raw, domain.DefaultLayout(), &fakeAddressSource{})
		require.NoError(t, err)
		assert.False(t, row.HasGroup(), "group cell %q", group)
	}
}

func TestParseRowCustomLayout(t *testing.T) {
	t.Parallel()

	layout := domain.DefaultLayout()
	layout.NoGroupPlaceholder = "brak"

	raw := validRaw()
	raw[5] = "Brak"

	row, err := domain.ParseRow(context.Background(), raw, layout, &fakeAddressSource{})
	require.NoError(t, err)
	assert.False(t, row.HasGroup())
}

func TestParseRowBlankContactUsesPlaceholder(t *testing.T) {
	t.Parallel()

	raw := validRaw()
	raw[7] = ""
	addresses := &fakeAddressSource{address: "qwertyuiop@noemail.invalid"}

	row, err := domain.ParseRow(context.Background(), raw, domain.DefaultLayout(), addresses)
	require.NoError(t, err)
	assert.Equal(t, "qwertyuiop@noemail.invalid", row.Contact)
	assert.Equal(t, 1, addresses.calls)
}

func TestParseRowPlaceholderFailure(t *testing.T) {
	t.Parallel()

	raw := validRaw()
	raw[7] = ""
	addresses := &fakeAddressSource{err: domain.ErrIdentifierSpaceExhausted}

	_, err := domain.ParseRow(context.Background(), raw, domain.DefaultLayout(), addresses)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIdentifierSpaceExhausted))
}

func TestParseRowGenderNotEnumerated(t *testing.T) {
	t.Parallel()

	raw := validRaw()
	raw[4] = "x"

	row, err := domain.ParseRow(context.Background(), raw, domain.DefaultLayout(), &fakeAddressSource{})
	require.NoError(t, err)
	assert.Equal(t, domain.Gender("X"), row.Gender)
	assert.False(t, row.Gender.Valid())
}

func TestParseRowInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edit  func(raw []string) []string
		field string
	}{
		{name: "missing guardian first name", field: "guardian_first_name", edit: func(raw []string) []string { raw[0] = ""; return raw }},
		{name: "missing guardian last name", field: "guardian_last_name", edit: func(raw []string) []string { raw[1] = " "; return raw }},
		{name: "missing student first name", field: "student_first_name", edit: func(raw []string) []string { raw[2] = ""; return raw }},
		{name: "missing phone", field: "phone", edit: func(raw []string) []string { raw[6] = ""; return raw }},
		{name: "non numeric phone", field: "phone", edit: func(raw []string) []string { raw[6] = "12345678a"; return raw }},
		{name: "short phone", field: "phone", edit: func(raw []string) []string { raw[6] = "12345678"; return raw }},
		{name: "long phone", field: "phone", edit: func(raw []string) []string { raw[6] = "1234567890"; return raw }},
		{name: "invalid email", field: "contact", edit: func(raw []string) []string { raw[7] = "not-an-email"; return raw }},
		{name: "truncated row", field: "phone", edit: func(raw []string) []string { return raw[:5] }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := domain.ParseRow(context.Background(), tc.edit(validRaw()), domain.DefaultLayout(), &fakeAddressSource{address: "a@noemail.invalid"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidRow))

			var rowErr *domain.RowValidationError
			require.True(t, errors.As(err, &rowErr))
			assert.Equal(t, tc.field, rowErr.Field)
		})
	}
}
