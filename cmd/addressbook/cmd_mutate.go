package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"addressbook/cmd/addressbook/ui"
	"addressbook/internal/contacts"
	"addressbook/internal/engine"
)

// contactFlags are shared by add and edit.
type contactFlags struct {
	name     string
	notes    string
	favorite bool
	methods  []string
}

func (f *contactFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "Contact name")
	fs.StringVar(&f.notes, "notes", "", "Free-form notes")
	fs.BoolVar(&f.favorite, "favorite", false, "Mark as favorite")
	fs.StringArrayVar(&f.methods, "method", nil, "Contact method as type=value[|label], repeatable (phone, email, social, address); escape a literal | as \\|")
}

// apply copies the flags that were set on the command line into form. Given
// methods replace the existing ones.
func (f *contactFlags) apply(fs *pflag.FlagSet, form *contacts.Form) error {
	if fs.Changed("name") {
		form.Name = f.name
	}
	if fs.Changed("notes") {
		form.Notes = f.notes
	}
	if fs.Changed("favorite") {
		form.Favorite = f.favorite
	}
	if fs.Changed("method") {
		rows := make([]contacts.MethodRow, 0, len(f.methods))
		for _, spec := range f.methods {
			row, err := contacts.ParseMethodSpec(spec)
			if err != nil {
				return err
			}
			rows = append(rows, row)
		}
		form.Rows = rows
	}
	return nil
}

var (
	addFlags  contactFlags
	editFlags contactFlags
	assumeYes bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a contact",
	Example: `  addressbook add --name "Alice" --method email=alice@example.com \
    --method "phone=+1 555 0100|work" --favorite`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Update a contact",
	Long: `Loads the contact, applies the given flags and saves it.

Flags that are not given keep their current value. Passing --method replaces
every contact method of the contact.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a contact",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite ID",
	Short: "Add a contact to favorites",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runSetFavorite(cmd, args, true) },
}

var unfavoriteCmd = &cobra.Command{
	Use:   "unfavorite ID",
	Short: "Remove a contact from favorites",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runSetFavorite(cmd, args, false) },
}

func init() {
	addFlags.register(addCmd.Flags())
	editFlags.register(editCmd.Flags())
	deleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

func runAdd(cmd *cobra.Command, args []string) error {
	form := contacts.Form{}
	if err := addFlags.apply(cmd.Flags(), &form); err != nil {
		return err
	}

	eng := newEngine(newClient(), newCLINotifier(cmd))
	saved, err := eng.Save(commandContext(cmd), form)
	if err != nil {
		return shown(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderCard(saved, cliStyles(), false, 0))
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	eng := newEngine(newClient(), newCLINotifier(cmd))
	form, err := eng.Fetch(ctx, id)
	if err != nil {
		return shown(err)
	}
	if err := editFlags.apply(cmd.Flags(), &form); err != nil {
		return err
	}

	saved, err := eng.Save(ctx, form)
	if err != nil {
		return shown(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderCard(saved, cliStyles(), false, 0))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	eng := newEngine(newClient(), newCLINotifier(cmd))
	// The list gives the prompt a name to show.
	if _, err := eng.Load(ctx); err != nil {
		return shown(err)
	}

	confirm := engine.Confirmed
	if !assumeYes {
		confirm = promptConfirm(cmd.InOrStdin(), cmd.ErrOrStderr())
	}
	deleted, err := eng.Delete(ctx, id, confirm)
	if err != nil {
		return shown(err)
	}
	if !deleted {
		fmt.Fprintln(cmd.ErrOrStderr(), "Delete cancelled")
	}
	return nil
}

// promptConfirm asks on w and reads the answer from r. Anything but y/yes
// declines, including end of input.
func promptConfirm(r io.Reader, w io.Writer) engine.ConfirmFunc {
	return func(c contacts.Contact) bool {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("#%d", c.ID)
		}
		fmt.Fprintf(w, "Delete contact %s? [y/N] ", name)
		answer, _ := bufio.NewReader(r).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}

func runSetFavorite(cmd *cobra.Command, args []string, favorite bool) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	eng := newEngine(newClient(), newCLINotifier(cmd))
	if err := eng.SetFavorite(commandContext(cmd), id, favorite); err != nil {
		return shown(err)
	}
	return nil
}
