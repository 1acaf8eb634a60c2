package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"addressbook/internal/api/apitest"
	"addressbook/internal/config"
	"addressbook/internal/contacts"
)

func newBackend(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.NewServer(
		contacts.Contact{ID: 1, Name: "Alice", Notes: "met at **GopherCon**", Methods: []contacts.Method{
			{ID: 10, Type: contacts.MethodEmail, Value: "alice@example.com", Label: "work"},
		}},
		contacts.Contact{ID: 2, Name: "Bob", IsFavorite: true, Methods: []contacts.Method{
			{ID: 11, Type: contacts.MethodPhone, Value: "555-0100"},
		}},
	)
	t.Cleanup(srv.Close)
	return srv
}

// resetFlags restores every flag of the tree to its default so runs do not
// leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

type result struct {
	out string
	err string
}

func run(t *testing.T, srv *apitest.Server, stdin string, args ...string) (result, error) {
	t.Helper()
	t.Setenv(config.EnvLogLevel, "error")
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})

	full := append([]string{
		"--config", filepath.Join(t.TempDir(), "config.yaml"),
		"--base-url", srv.URL,
	}, args...)
	rootCmd.SetArgs(full)
	err := rootCmd.ExecuteContext(context.Background())
	return result{out: out.String(), err: errOut.String()}, err
}

func TestList(t *testing.T) {
	srv := newBackend(t)

	res, err := run(t, srv, "", "list")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Alice")
	assert.Contains(t, res.out, "Bob")
	assert.Contains(t, res.out, "alice@example.com")
	assert.Equal(t, 1, srv.Count(apitest.RouteList))
}

func TestList_Favorites(t *testing.T) {
	srv := newBackend(t)

	res, err := run(t, srv, "", "list", "--favorites")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Bob")
	assert.NotContains(t, res.out, "Alice")
}

func TestList_SearchWithoutMatches(t *testing.T) {
	srv := newBackend(t)

	res, err := run(t, srv, "", "list", "--search", "ali")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Alice")
	assert.NotContains(t, res.out, "Bob")

	res, err = run(t, srv, "", "list", "--search", "nobody")
	require.NoError(t, err)
	assert.Contains(t, res.out, contacts.OutcomeNoMatches.Message())
}

func TestList_NetworkError(t *testing.T) {
	srv := newBackend(t)
	srv.Close()

	res, err := run(t, srv, "", "list")
	require.Error(t, err)
	var shownErr *shownError
	assert.True(t, errors.As(err, &shownErr))
	assert.Contains(t, res.err, "Network error")
}

func TestShow(t *testing.T) {
	srv := newBackend(t)

	res, err := run(t, srv, "", "show", "2", "1")
	require.NoError(t, err)
	assert.Equal(t, 2, srv.Count(apitest.RouteGet))
	bob := strings.Index(res.out, "Bob")
	alice := strings.Index(res.out, "Alice")
	require.GreaterOrEqual(t, bob, 0)
	require.GreaterOrEqual(t, alice, 0)
	assert.Less(t, bob, alice, "contacts print in argument order")
}

func TestShow_NotFound(t *testing.T) {
	srv := newBackend(t)

	_, err := run(t, srv, "", "show", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contact 99")
	assert.Contains(t, err.Error(), "contact not found")
}

func TestShow_InvalidID(t *testing.T) {
	srv := newBackend(t)

	_, err := run(t, srv, "", "show", "abc")
	require.Error(t, err)
	assert.Equal(t, 0, srv.Total())
}

func TestSearch(t *testing.T) {
	srv := newBackend(t)

	res, err := run(t, srv, "", "search", "555")
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Count(apitest.RouteSearch))
	assert.Contains(t, res.out, "Bob")
	assert.NotContains(t, res.out, "Alice")
}

func TestStats(t *testing.T) {
	srv := newBackend(t)

	res, err := run(t, srv, "", "stats")
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Count(apitest.RouteStats))
	assert.Contains(t, res.out, "Favorites")

	res, err = run(t, srv, "", "stats", "--local")
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Count(apitest.RouteStats))
	assert.Equal(t, 1, srv.Count(apitest.RouteList))
	assert.Contains(t, res.out, "Contacts")
}

func TestAdd(t *testing.T) {
	srv := newBackend(t)

	res, err := run(t, srv, "", "add",
		"--name", "Carol",
		"--method", "email=carol@example.com|home",
		"--method", "phone=555-0199",
		"--favorite",
	)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Count(apitest.RouteCreate))
	assert.Equal(t, 1, srv.Count(apitest.RouteList), "one reload after the create")
	assert.Contains(t, res.out, "Carol")
	assert.Contains(t, res.err, "Contact created")

	var carol contacts.Contact
	for _, c := range srv.Contacts() {
		if c.Name == "Carol" {
			carol = c
		}
	}
	require.NotZero(t, carol.ID)
	assert.True(t, carol.IsFavorite)
	require.Len(t, carol.Methods, 2)
	assert.Equal(t, "home", carol.Methods[0].Label)
	assert.Equal(t, contacts.DefaultLabel, carol.Methods[1].Label)
}

func TestAdd_NameRequired(t *testing.T) {
	srv := newBackend(t)

	_, err := run(t, srv, "", "add", "--notes", "nameless")
	require.ErrorIs(t, err, contacts.ErrNameRequired)
	assert.Equal(t, 0, srv.Total())
}

func TestAdd_BadMethod(t *testing.T) {
	srv := newBackend(t)

	_, err := run(t, srv, "", "add", "--name", "Carol", "--method", "fax=123")
	require.Error(t, err)
	assert.Equal(t, 0, srv.Total())
}

func TestEdit_KeepsUnsetFields(t *testing.T) {
	srv := newBackend(t)

	_, err := run(t, srv, "", "edit", "1", "--notes", "moved to Berlin")
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Count(apitest.RouteGet))
	assert.Equal(t, 1, srv.Count(apitest.RouteUpdate))

	alice, ok := contacts.Find(srv.Contacts(), 1)
	require.True(t, ok)
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, "moved to Berlin", alice.Notes)
	require.Len(t, alice.Methods, 1)
	assert.Equal(t, "alice@example.com", alice.Methods[0].Value)
}

func TestDelete_Declined(t *testing.T) {
	srv := newBackend(t)

	res, err := run(t, srv, "n\n", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, res.err, "Delete contact Alice?")
	assert.Contains(t, res.err, "Delete cancelled")
	assert.Equal(t, 0, srv.Count(apitest.RouteDelete))
	assert.Len(t, srv.Contacts(), 2)
}

func TestDelete_EOFDeclines(t *testing.T) {
	srv := newBackend(t)

	_, err := run(t, srv, "", "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, 0, srv.Count(apitest.RouteDelete))
}

func TestDelete_Confirmed(t *testing.T) {
	srv := newBackend(t)

	_, err := run(t, srv, "yes\n", "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Count(apitest.RouteDelete))
	assert.Len(t, srv.Contacts(), 1)
}

func TestDelete_AssumeYes(t *testing.T) {
	srv := newBackend(t)

	res, err := run(t, srv, "", "delete", "2", "--yes")
	require.NoError(t, err)
	assert.NotContains(t, res.err, "[y/N]")
	assert.Equal(t, 1, srv.Count(apitest.RouteDelete))
}

func TestFavorite(t *testing.T) {
	srv := newBackend(t)

	res, err := run(t, srv, "", "favorite", "1")
	require.NoError(t, err)
	assert.Contains(t, res.err, "Added to favorites")

	_, err = run(t, srv, "", "unfavorite", "2")
	require.NoError(t, err)

	assert.Equal(t, 2, srv.Count(apitest.RouteFavorite))
	list := srv.Contacts()
	assert.True(t, list[0].IsFavorite)
	assert.False(t, list[1].IsFavorite)
}

func TestFavorite_Rejected(t *testing.T) {
	srv := newBackend(t)

	res, err := run(t, srv, "", "favorite", "42")
	require.Error(t, err)
	assert.Contains(t, res.err, "Favorite failed: contact not found")
	assert.Equal(t, 0, srv.Count(apitest.RouteList))
}

func TestExport(t *testing.T) {
	srv := newBackend(t)
	path := filepath.Join(t.TempDir(), "out.csv")

	_, err := run(t, srv, "", "export", "--output", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "name,phone,email,social,address,notes"))
	assert.Contains(t, string(data), "Alice")
}

func TestExport_Stdout(t *testing.T) {
	srv := newBackend(t)

	res, err := run(t, srv, "", "export", "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, res.out, "alice@example.com")
}

func TestTemplate(t *testing.T) {
	srv := newBackend(t)

	res, err := run(t, srv, "", "template", "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Count(apitest.RouteTemplate))
	assert.Contains(t, res.out, "name,phone")
}

func TestImport(t *testing.T) {
	srv := newBackend(t)
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,phone,email,social,address,notes\nCarol,555,,,,\n,556,,,,\n"), 0o600))

	res, err := run(t, srv, "", "import", path)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Count(apitest.RouteImport))
	assert.Equal(t, 1, srv.Count(apitest.RouteList))
	assert.Contains(t, res.err, "Imported 1 contacts (1 rows rejected)")
	assert.Contains(t, res.out, "Rejected rows")
	assert.Contains(t, res.out, "name is required")
	assert.Len(t, srv.Contacts(), 3)
}

func TestImport_UnsupportedExtension(t *testing.T) {
	srv := newBackend(t)
	path := filepath.Join(t.TempDir(), "people.txt")
	require.NoError(t, os.WriteFile(path, []byte("Carol\n"), 0o600))

	_, err := run(t, srv, "", "import", path)
	require.ErrorIs(t, err, contacts.ErrUnsupportedFile)
	assert.Equal(t, 0, srv.Total())
}

func TestPromptConfirm(t *testing.T) {
	var prompt bytes.Buffer
	confirm := promptConfirm(strings.NewReader("Y\n"), &prompt)
	assert.True(t, confirm(contacts.Contact{ID: 3}))
	assert.Contains(t, prompt.String(), "#3")

	confirm = promptConfirm(strings.NewReader("maybe\n"), &prompt)
	assert.False(t, confirm(contacts.Contact{ID: 3, Name: "Dana"}))
}

func TestParseID(t *testing.T) {
	id, err := parseID("#12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, bad := range []string{"", "0", "-3", "x"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}
