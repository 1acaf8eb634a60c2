package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"addressbook/cmd/addressbook/ui"
	"addressbook/internal/api"
	"addressbook/internal/engine"
)

var (
	exportOutput   string
	exportOpen     bool
	templateOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download all contacts as a spreadsheet",
	Long: `Downloads the export file into the current directory under the name the
backend suggests. --output picks the path ("-" writes to stdout) and --open
hands the download to the browser instead.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import contacts from an .xlsx, .xls or .csv file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Download the import template",
	Args:  cobra.NoArgs,
	RunE:  runTemplate,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output path, - for stdout")
	exportCmd.Flags().BoolVar(&exportOpen, "open", false, "Open the export in the browser")
	exportCmd.MarkFlagsMutuallyExclusive("output", "open")
	templateCmd.Flags().StringVarP(&templateOutput, "output", "o", "", "Output path, - for stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	client := newClient()
	notifier := newCLINotifier(cmd)

	if exportOpen {
		if err := openBrowser(client.ExportURL()); err != nil {
			return fmt.Errorf("could not open browser: %w", err)
		}
		notifier.Notify(engine.Toast{Level: engine.LevelInfo, Text: "Export opened in your browser"})
		return nil
	}

	path, err := download(commandContext(cmd), cmd.OutOrStdout(), exportOutput, client.Export)
	if err != nil {
		return fmt.Errorf("export failed: %s", api.UserMessage(err))
	}
	if path != "" {
		notifier.Notify(engine.Toast{Level: engine.LevelSuccess, Text: "Exported to " + path})
	}
	return nil
}

func runTemplate(cmd *cobra.Command, args []string) error {
	path, err := download(commandContext(cmd), cmd.OutOrStdout(), templateOutput, newClient().Template)
	if err != nil {
		return fmt.Errorf("template download failed: %s", api.UserMessage(err))
	}
	if path != "" {
		newCLINotifier(cmd).Notify(engine.Toast{Level: engine.LevelSuccess, Text: "Template saved to " + path})
	}
	return nil
}

// download fetches a file and writes it to output, to stdout for "-", or to
// the suggested name in the working directory. It returns the path written,
// empty for stdout.
func download(ctx context.Context, stdout io.Writer, output string, fetch func(context.Context, io.Writer) (string, error)) (string, error) {
	if output == "-" {
		_, err := fetch(ctx, stdout)
		return "", err
	}

	var buf bytes.Buffer
	name, err := fetch(ctx, &buf)
	if err != nil {
		return "", err
	}
	path := output
	if path == "" {
		path = filepath.Base(name)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	eng := newEngine(newClient(), newCLINotifier(cmd))

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	defer f.Close()

	res, err := eng.Import(commandContext(cmd), filepath.Base(path), f)
	if err != nil {
		return shown(err)
	}

	if len(res.Errors) > 0 {
		table := ui.NewSimpleTable("Rejected rows", "Row", "Name", "Error")
		for _, rowErr := range res.Errors {
			table.AddRow(strconv.Itoa(rowErr.Row), rowErr.Name, rowErr.Error)
		}
		fmt.Fprint(cmd.OutOrStdout(), table.View(cliStyles()))
	}
	return nil
}
