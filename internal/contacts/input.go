package contacts

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNameRequired is returned before any request is made when the name is blank.
	ErrNameRequired = errors.New("please enter the contact's name")
	// ErrInvalidInput wraps struct validation failures.
	ErrInvalidInput = errors.New("invalid contact")
	// ErrUnsupportedFile rejects import files by extension before upload.
	ErrUnsupportedFile = errors.New("only .xlsx, .xls and .csv files are supported")
	// ErrNoFile is returned when an import is started without a file.
	ErrNoFile = errors.New("please choose a file to import")
)

// ImportExtensions are the file extensions the import accepts.
var ImportExtensions = []string{".xlsx", ".xls", ".csv"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report wire names so messages match what the backend calls the fields.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// MethodInput is a contact method as sent to the backend.
type MethodInput struct {
	Type  MethodType `json:"type" validate:"required,oneof=phone email social address"`
	Value string     `json:"value" validate:"required,max=200"`
	Label string     `json:"label" validate:"max=50"`
}

// Input is the create/update payload.
type Input struct {
	Name       string        `json:"name" validate:"required,max=100"`
	Notes      string        `json:"notes"`
	IsFavorite bool          `json:"is_favorite"`
	Methods    []MethodInput `json:"contact_methods" validate:"dive"`
}

// Validate checks the payload against its struct tags.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if err := validate.Struct(in); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// MethodRow is one editable method line of the contact form.
type MethodRow struct {
	Type  MethodType
	Value string
	Label string
}

// Form is the editable state of the contact editor. ID is zero for a new contact.
type Form struct {
	ID       int64
	Name     string
	Notes    string
	Favorite bool
	Rows     []MethodRow
}

// NewForm returns an empty form with a single blank phone row.
func NewForm() Form {
	return Form{Rows: []MethodRow{{Type: MethodPhone}}}
}

// FormFromContact fills a form from a fetched contact. A contact without
// methods still gets one blank row to type into.
func FormFromContact(c Contact) Form {
	f := Form{
		ID:       c.ID,
		Name:     c.Name,
		Notes:    c.Notes,
		Favorite: c.IsFavorite,
	}
	for _, m := range c.Methods {
		f.Rows = append(f.Rows, MethodRow{Type: m.Type, Value: m.Value, Label: m.Label})
	}
	if len(f.Rows) == 0 {
		f.Rows = []MethodRow{{Type: MethodPhone}}
	}
	return f
}

// IsNew reports whether saving the form creates a contact.
func (f Form) IsNew() bool { return f.ID == 0 }

// AddRow appends a blank phone row.
func (f *Form) AddRow() {
	f.Rows = append(f.Rows, MethodRow{Type: MethodPhone})
}

// RemoveRow deletes row i. The last remaining row is cleared instead of removed.
func (f *Form) RemoveRow(i int) {
	if i < 0 || i >= len(f.Rows) {
		return
	}
	if len(f.Rows) == 1 {
		f.Rows[0].Value = ""
		f.Rows[0].Label = ""
		return
	}
	f.Rows = append(f.Rows[:i], f.Rows[i+1:]...)
}

// CollectMethods turns form rows into payload methods: values and labels are
// trimmed, rows with a blank value are dropped, blank labels become DefaultLabel.
func CollectMethods(rows []MethodRow) []MethodInput {
	methods := make([]MethodInput, 0, len(rows))
	for _, row := range rows {
		value := strings.TrimSpace(row.Value)
		if value == "" {
			continue
		}
		label := strings.TrimSpace(row.Label)
		if label == "" {
			label = DefaultLabel
		}
		methods = append(methods, MethodInput{Type: row.Type, Value: value, Label: label})
	}
	return methods
}

// Input builds and validates the payload. The name check runs first so an
// empty name never reaches the network.
func (f Form) Input() (Input, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return Input{}, ErrNameRequired
	}
	in := Input{
		Name:       name,
		Notes:      strings.TrimSpace(f.Notes),
		IsFavorite: f.Favorite,
		Methods:    CollectMethods(f.Rows),
	}
	if err := in.Validate(); err != nil {
		return Input{}, err
	}
	return in, nil
}

// ParseMethodSpec parses the CLI form "type=value[|label]". The label follows
// the last unescaped "|"; write \| for a literal pipe in the value or label.
func ParseMethodSpec(spec string) (MethodRow, error) {
	typ, rest, ok := strings.Cut(spec, "=")
	if !ok {
		return MethodRow{}, fmt.Errorf("invalid method %q (want type=value[|label])", spec)
	}
	t, err := ParseMethodType(typ)
	if err != nil {
		return MethodRow{}, err
	}
	row := MethodRow{Type: t, Value: rest}
	if i := lastUnescapedPipe(rest); i >= 0 {
		row.Value, row.Label = rest[:i], rest[i+1:]
	}
	row.Value = strings.ReplaceAll(row.Value, `\|`, "|")
	row.Label = strings.ReplaceAll(row.Label, `\|`, "|")
	return row, nil
}

func lastUnescapedPipe(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '|' && (i == 0 || s[i-1] != '\\') {
			return i
		}
	}
	return -1
}

// ValidateImportFile checks the file name extension before upload.
func ValidateImportFile(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNoFile
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range ImportExtensions {
		if ext == allowed {
			return nil
		}
	}
	return ErrUnsupportedFile
}
