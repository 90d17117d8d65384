package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Amogh-Hegde/speX/internal/config"
	"github.com/Amogh-Hegde/speX/internal/store"
)

var identitiesCmd = &cobra.Command{
	Use:   "identities",
	Short: "Manage the trained identity gallery",
}

var identitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trained identities",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.Store) error {
			identities, err := st.Identities().List()
			if err != nil {
				return err
			}
			if len(identities) == 0 {
				fmt.Println("No trained identities")
				return nil
			}
			for _, ident := range identities {
				relation := ident.Relation
				if relation == "" {
					relation = "-"
				}
				fmt.Printf("%-20s %-12s %d samples\n", ident.Name, relation, ident.Samples)
			}
			return nil
		})
	},
}

var identitiesImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import a training export into the gallery",
	Long: "Import identities from a JSON file: an array of records with " +
		"name, relation and one embedding per training image.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		var records []store.ImportRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		return withStore(func(st *store.Store) error {
			created, err := st.Identities().Import(records)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d identities\n", created)
			return nil
		})
	},
}

var identitiesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete all identities with the given name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.Store) error {
			if err := st.Identities().DeleteByName(args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		})
	},
}

func init() {
	identitiesCmd.AddCommand(identitiesListCmd)
	identitiesCmd.AddCommand(identitiesImportCmd)
	identitiesCmd.AddCommand(identitiesDeleteCmd)
	rootCmd.AddCommand(identitiesCmd)
}

// withStore opens the configured store around one operation.
func withStore(fn func(*store.Store) error) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	return fn(st)
}
