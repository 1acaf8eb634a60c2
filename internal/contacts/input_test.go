package contacts

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm_Input_NameRequired(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		f := NewForm()
		f.Name = name
		_, err := f.Input()
		assert.ErrorIs(t, err, ErrNameRequired, "name %q", name)
	}
}

func TestForm_Input_CollectsRows(t *testing.T) {
	f := Form{
		Name:     "  Alice  ",
		Notes:    "  friend ",
		Favorite: true,
		Rows: []MethodRow{
			{Type: MethodPhone, Value: " 123 ", Label: ""},
			{Type: MethodEmail, Value: "   ", Label: "work"},
			{Type: MethodEmail, Value: "a@example.com", Label: " work "},
		},
	}

	in, err := f.Input()
	require.NoError(t, err)

	want := Input{
		Name:       "Alice",
		Notes:      "friend",
		IsFavorite: true,
		Methods: []MethodInput{
			{Type: MethodPhone, Value: "123", Label: DefaultLabel},
			{Type: MethodEmail, Value: "a@example.com", Label: "work"},
		},
	}
	if diff := cmp.Diff(want, in); diff != "" {
		t.Errorf("Input() mismatch (-want +got):\n%s", diff)
	}
}

func TestForm_Input_NoMethodsEncodesEmptySlice(t *testing.T) {
	f := NewForm()
	f.Name = "Solo"
	in, err := f.Input()
	require.NoError(t, err)
	assert.NotNil(t, in.Methods)
	assert.Empty(t, in.Methods)
}

func TestForm_Input_RejectsUnknownType(t *testing.T) {
	f := Form{Name: "Eve", Rows: []MethodRow{{Type: "fax", Value: "555"}}}
	_, err := f.Input()
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "type must be one of")
}

func TestForm_Input_RejectsLongName(t *testing.T) {
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	f := Form{Name: string(long)}
	_, err := f.Input()
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "name must be at most 100")
}

func TestFormFromContact(t *testing.T) {
	c := Contact{ID: 9, Name: "Bob", Notes: "n", IsFavorite: true, Methods: []Method{
		{Type: MethodEmail, Value: "b@example.com", Label: "home"},
	}}
	f := FormFromContact(c)
	assert.Equal(t, int64(9), f.ID)
	assert.False(t, f.IsNew())
	assert.Equal(t, []MethodRow{{Type: MethodEmail, Value: "b@example.com", Label: "home"}}, f.Rows)

	empty := FormFromContact(Contact{ID: 3, Name: "NoMethods"})
	assert.Len(t, empty.Rows, 1, "a contact without methods opens with one blank row")
}

func TestForm_RemoveRow(t *testing.T) {
	f := NewForm()
	f.Rows[0].Value = "123"
	f.Rows[0].Label = "home"
	f.RemoveRow(0)
	require.Len(t, f.Rows, 1, "last row is cleared, not removed")
	assert.Empty(t, f.Rows[0].Value)
	assert.Empty(t, f.Rows[0].Label)

	f.AddRow()
	f.Rows[1].Value = "x"
	f.RemoveRow(0)
	require.Len(t, f.Rows, 1)
	assert.Equal(t, "x", f.Rows[0].Value)

	f.RemoveRow(5)
	assert.Len(t, f.Rows, 1)
}

func TestParseMethodSpec(t *testing.T) {
	row, err := ParseMethodSpec("social=https://example.com/bob|blog")
	require.NoError(t, err)
	assert.Equal(t, MethodRow{Type: MethodSocial, Value: "https://example.com/bob", Label: "blog"}, row)

	row, err = ParseMethodSpec("PHONE=555-1234")
	require.NoError(t, err)
	assert.Equal(t, MethodRow{Type: MethodPhone, Value: "555-1234"}, row)

	row, err = ParseMethodSpec(`social=a\|b`)
	require.NoError(t, err)
	assert.Equal(t, MethodRow{Type: MethodSocial, Value: "a|b"}, row)

	row, err = ParseMethodSpec(`social=a\|b|pipes`)
	require.NoError(t, err)
	assert.Equal(t, MethodRow{Type: MethodSocial, Value: "a|b", Label: "pipes"}, row)

	row, err = ParseMethodSpec("address=1 Main St|home|work")
	require.NoError(t, err)
	assert.Equal(t, MethodRow{Type: MethodAddress, Value: "1 Main St|home", Label: "work"}, row)

	_, err = ParseMethodSpec("phone")
	assert.Error(t, err)
	_, err = ParseMethodSpec("fax=1")
	assert.Error(t, err)
}

func TestValidateImportFile(t *testing.T) {
	for _, name := range []string{"book.xlsx", "BOOK.XLS", "dir/contacts.csv"} {
		assert.NoError(t, ValidateImportFile(name), name)
	}
	for _, name := range []string{"book.txt", "book", "contacts.csv.bak"} {
		assert.ErrorIs(t, ValidateImportFile(name), ErrUnsupportedFile, name)
	}
	assert.ErrorIs(t, ValidateImportFile(""), ErrNoFile)
}
