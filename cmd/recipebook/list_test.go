package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebook/internal/domain"
)

func TestPrintRecipes(t *testing.T) {
	var buf bytes.Buffer
	err := printRecipes(&buf, []domain.Recipe{
		{Title: "Soup", Category: "Dinner", Ingredients: []string{"Water", "Salt"}, Favorite: true, Created: time.Now().Add(-2 * time.Hour)},
		{Title: "Toast", Ingredients: []string{"Bread"}, Created: time.Now()},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "FAV"))
	assert.Contains(t, lines[1], "Soup")
	assert.Contains(t, lines[1], "2 hours ago")
	assert.True(t, strings.HasPrefix(lines[1], "*"))
	assert.Contains(t, lines[2], domain.UncategorizedLabel)
}

func TestPrintRecipes_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRecipes(&buf, nil))
	assert.Equal(t, "No recipes found.\n", buf.String())
}

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["list"])
	assert.True(t, names["export"])
	assert.NotNil(t, serveCmd.Flags().Lookup("ephemeral"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}
