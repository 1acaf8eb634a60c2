package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"addressbook/cmd/addressbook/ui"
	"addressbook/internal/api"
	"addressbook/internal/contacts"
)

var (
	listFavorites bool
	listSearch    string
	statsLocal    bool
	showWidth     int
)

// listCmd prints the contact list through the same filter the card view uses.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts",
	Long: `Fetches every contact and prints them as a table.

--favorites keeps only favorites and --search keeps contacts whose name, notes
or any contact method contains the term (case-insensitive).`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var showCmd = &cobra.Command{
	Use:   "show ID...",
	Short: "Show contacts in full",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShow,
}

var searchCmd = &cobra.Command{
	Use:   "search TERM",
	Short: "Search contacts on the server",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show contact counters",
	Long: `Prints the number of contacts, favorites and contact methods per type.

By default the backend computes them; --local derives them from the list.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	listCmd.Flags().BoolVar(&listFavorites, "favorites", false, "Only show favorites")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Only show contacts matching the term")
	showCmd.Flags().IntVar(&showWidth, "width", 80, "Wrap width")
	statsCmd.Flags().BoolVar(&statsLocal, "local", false, "Compute the counters from the contact list")
}

func runList(cmd *cobra.Command, args []string) error {
	eng := newEngine(newClient(), newCLINotifier(cmd))
	if _, err := eng.Load(commandContext(cmd)); err != nil {
		return shown(err)
	}

	filter := contacts.Filter{Mode: contacts.ViewAll, Search: listSearch}
	title := "Contacts"
	if listFavorites {
		filter.Mode = contacts.ViewFavorites
		title = "Favorites"
	}
	writeView(cmd.OutOrStdout(), title, contacts.Derive(eng.Snapshot(), filter))
	return nil
}

// runShow fetches every requested contact concurrently and prints them in
// argument order.
func runShow(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	client := newClient()
	results := make([]contacts.Contact, len(ids))
	g, ctx := errgroup.WithContext(commandContext(cmd))
	for i, id := range ids {
		g.Go(func() error {
			c, err := client.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("contact %d: %s", id, api.UserMessage(err))
			}
			results[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	style := "auto"
	if cfg != nil && cfg.UI.Theme != "" {
		style = cfg.UI.Theme
	}
	out := cmd.OutOrStdout()
	for _, c := range results {
		rendered, err := ui.RenderMarkdown(ui.ContactMarkdown(c), style, showWidth)
		if err != nil {
			return err
		}
		fmt.Fprint(out, rendered)
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	term := strings.Join(args, " ")
	found, err := newClient().Search(commandContext(cmd), term)
	if err != nil {
		return fmt.Errorf("search failed: %s", api.UserMessage(err))
	}

	view := contacts.View{Contacts: found, Outcome: contacts.OutcomeList}
	if len(found) == 0 {
		view.Outcome = contacts.OutcomeNoMatches
	}
	writeView(cmd.OutOrStdout(), fmt.Sprintf("Results for %q", term), view)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	var st contacts.Stats
	if statsLocal {
		eng := newEngine(newClient(), newCLINotifier(cmd))
		if _, err := eng.Load(commandContext(cmd)); err != nil {
			return shown(err)
		}
		st = contacts.Summarize(eng.Snapshot())
	} else {
		var err error
		st, err = newClient().Stats(commandContext(cmd))
		if err != nil {
			return fmt.Errorf("stats failed: %s", api.UserMessage(err))
		}
	}

	table := ui.NewSimpleTable("Statistics", "Counter", "Value")
	table.AddRow("Contacts", strconv.Itoa(st.TotalContacts))
	table.AddRow("Favorites", strconv.Itoa(st.FavoriteContacts))
	for _, t := range contacts.MethodTypes {
		table.AddRow(t.Title(), strconv.Itoa(st.MethodCount(t)))
	}
	fmt.Fprint(cmd.OutOrStdout(), table.View(cliStyles()))
	return nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := parseID(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid contact id %q", s)
	}
	return id, nil
}
