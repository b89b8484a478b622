package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukaan-dev/sahayak/internal/corpus"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the training corpus",
}

var corpusImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import examples from a YAML corpus file into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()

		examples, err := corpus.Load(args[0])
		if err != nil {
			return err
		}
		if err := corpus.Persist(a.store, examples); err != nil {
			return err
		}
		fmt.Printf("Imported %d examples.\n", len(examples))
		return nil
	},
}

var corpusExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the persisted corpus to a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()

		examples, err := corpus.FromStore(a.store)
		if err != nil {
			return err
		}
		if err := corpus.Save(args[0], examples); err != nil {
			return err
		}
		fmt.Printf("Exported %d examples to %s.\n", len(examples), args[0])
		return nil
	},
}

var corpusSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Persist the built-in starter corpus into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()

		examples := corpus.Default()
		if err := corpus.Persist(a.store, examples); err != nil {
			return err
		}
		fmt.Printf("Seeded %d examples.\n", len(examples))
		return nil
	},
}

func init() {
	corpusCmd.AddCommand(corpusImportCmd)
	corpusCmd.AddCommand(corpusExportCmd)
	corpusCmd.AddCommand(corpusSeedCmd)
}
