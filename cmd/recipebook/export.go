package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"recipebook/internal/catalog"
	"recipebook/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all recipes to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		store, closeStore, err := openStore(cfg, log, false)
		if err != nil {
			return err
		}
		defer closeStore()

		recipes := catalog.NewRepository(cmd.Context(), store, log).All()

		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		if err := export.WriteXLSX(f, recipes); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", exportOut, err)
		}
		log.WithField("recipe_count", len(recipes)).WithField("path", exportOut).Info("Recipes exported")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "recipes.xlsx", "output file")
}
