package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukaan-dev/sahayak/internal/tui"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Launch the interactive chat UI",
	RunE:  runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := tui.New(a.service).Run(); err != nil {
		return fmt.Errorf("chat UI: %w", err)
	}
	return nil
}
