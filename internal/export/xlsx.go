// Package export writes the recipe collection to spreadsheet files.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"recipebook/internal/domain"
)

// SheetName is the worksheet holding one row per recipe.
const SheetName = "Recipes"

var header = []interface{}{"ID", "Title", "Category", "Ingredients", "Steps", "Favorite", "Created"}

// WriteXLSX writes recipes as an xlsx workbook to w.
func WriteXLSX(w io.Writer, recipes []domain.Recipe) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	// StreamWriter keeps memory flat for large catalogs.
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, r := range recipes {
		row := []interface{}{
			r.ID,
			r.Title,
			r.Category,
			strings.Join(r.Ingredients, "\n"),
			strings.Join(r.Steps, "\n"),
			r.Favorite,
			r.Created.UTC().Format(time.RFC3339),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2) // A2, A3, ...
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
