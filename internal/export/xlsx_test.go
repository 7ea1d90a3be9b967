package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"recipebook/internal/domain"
)

func TestWriteXLSX(t *testing.T) {
	recipes := []domain.Recipe{
		{
			ID:          "r2",
			Title:       "Pancakes",
			Category:    "Breakfast",
			Ingredients: []string{"Flour", "Milk"},
			Steps:       []string{"Mix", "Fry"},
			Favorite:    true,
			Created:     time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC),
		},
		{
			ID:          "r1",
			Title:       "Soup",
			Ingredients: []string{"Water"},
			Steps:       []string{"Boil"},
			Created:     time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, recipes))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"ID", "Title", "Category", "Ingredients", "Steps", "Favorite", "Created"}, rows[0])
	assert.Equal(t, "Pancakes", rows[1][1])
	assert.Equal(t, "Flour\nMilk", rows[1][3])
	assert.Equal(t, "TRUE", rows[1][5])
	assert.Equal(t, "2025-03-02T08:00:00Z", rows[1][6])
	assert.Equal(t, "Soup", rows[2][1])
	assert.Equal(t, "", rows[2][2])
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
