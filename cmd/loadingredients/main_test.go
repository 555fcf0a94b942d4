package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/service"
)

func TestParseCSV(t *testing.T) {
	rows, err := parseCSV(strings.NewReader("salt,g\n\"flour, wheat\", g\n"))
	require.NoError(t, err)
	assert.Equal(t, []service.IngredientRow{
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "flour, wheat", MeasurementUnit: "g"},
	}, rows)

	_, err = parseCSV(strings.NewReader("salt,g,extra\n"))
	assert.Error(t, err)
}

func TestParseJSON(t *testing.T) {
	rows, err := parseJSON(strings.NewReader(`[{"name": "milk", "measurement_unit": "ml"}]`))
	require.NoError(t, err)
	assert.Equal(t, []service.IngredientRow{{Name: "milk", MeasurementUnit: "ml"}}, rows)

	_, err = parseJSON(strings.NewReader(`{"name": "milk"}`))
	assert.Error(t, err)
}

func TestReadFileRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingredients.xml")
	require.NoError(t, os.WriteFile(path, []byte("<x/>"), 0o644))

	_, err := readFile(path)
	assert.ErrorContains(t, err, "unsupported file type")
}
