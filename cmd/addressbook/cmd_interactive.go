package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"addressbook/cmd/addressbook/tui"
	"addressbook/internal/config"
	"addressbook/internal/logging"
)

// runInteractive starts the card view.
func runInteractive(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	uiLog := logging.For(logger, logging.CategoryUI)

	client := newClient()
	notifier := tui.NewNotifier()
	eng := newEngine(client, notifier)

	// Live config reload is best effort: a missing config directory just
	// means there is nothing to watch.
	var updates chan *config.Config
	watcher, err := config.NewWatcher(configPath, cfg, logging.For(logger, logging.CategoryConfig))
	if err != nil {
		uiLog.Debug("config watcher disabled", zap.Error(err))
	} else {
		updates = make(chan *config.Config, 1)
		watcher.Subscribe(func(c *config.Config) {
			// Only the newest config matters.
			select {
			case <-updates:
			default:
			}
			updates <- c
		})
		watcher.Start(ctx)
		defer watcher.Stop()
	}

	startDir, _ := os.Getwd()
	model := tui.New(tui.Options{
		Engine:        eng,
		Notifier:      notifier,
		Config:        cfg,
		ConfigUpdates: updates,
		ExportURL:     client.ExportURL(),
		OpenURL:       openBrowser,
		StartDir:      startDir,
		Logger:        uiLog,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err = p.Run()
	return err
}
