// Command loadingredients imports the ingredient catalogue from a CSV file of
// "name,measurement_unit" rows or a JSON array of {name, measurement_unit}.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	logger.Init("foodgram-loadingredients", true)

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: loadingredients <file.csv|file.json>")
		os.Exit(2)
	}
	path := os.Args[1]

	rows, err := readFile(path)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("path", path).Msg("failed to read ingredients")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	db, err := database.Open(cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	ingredients, err := service.NewIngredientService(repository.NewGormStore(db), 1)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to create ingredient service")
	}
	result, err := ingredients.Import(context.Background(), rows)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("import failed")
	}

	fmt.Printf("Loaded: %d ingredients, skipped duplicates: %d, invalid rows: %d\n",
		result.Inserted, result.Skipped, result.Invalid)
}

func readFile(path string) ([]service.IngredientRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseJSON(f)
	case ".csv":
		return parseCSV(f)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

func parseJSON(r io.Reader) ([]service.IngredientRow, error) {
	var rows []service.IngredientRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("invalid ingredients json: %w", err)
	}
	return rows, nil
}

func parseCSV(r io.Reader) ([]service.IngredientRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var rows []service.IngredientRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("invalid ingredients csv: %w", err)
		}
		rows = append(rows, service.IngredientRow{Name: record[0], MeasurementUnit: record[1]})
	}
}
