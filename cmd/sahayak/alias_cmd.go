package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var aliasCmd = &cobra.Command{
	Use:   "alias",
	Short: "Manage learned vocabulary",
}

var aliasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learned aliases",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()

		aliases, err := a.store.ListAliases()
		if err != nil {
			return err
		}
		if len(aliases) == 0 {
			fmt.Println("No learned aliases yet. Teach one with: sahayak alias set <word> <meaning>")
			return nil
		}
		keys := make([]string, 0, len(aliases))
		for k := range aliases {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s -> %s\n", k, aliases[k])
		}
		return nil
	},
}

var aliasSetCmd = &cobra.Command{
	Use:   "set <word> <meaning>",
	Short: "Teach a new alias",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.store.SetAlias(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Got it, %s means %s.\n", args[0], args[1])
		return nil
	},
}

func init() {
	aliasCmd.AddCommand(aliasListCmd)
	aliasCmd.AddCommand(aliasSetCmd)
}
