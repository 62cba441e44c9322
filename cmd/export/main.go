package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"tiakaly/internal/config"
	"tiakaly/internal/database"
	"tiakaly/internal/models"
	"tiakaly/internal/repository"
)

func main() {
	output := flag.String("output", "", "Output file path (default: places_YYYYMMDD_HHMMSS.xlsx)")
	publishedOnly := flag.Bool("published-only", false, "Export only published places")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	placeRepo := repository.NewPlaceRepository(db)
	places, err := placeRepo.GetAllPlaces()
	if err != nil {
		log.Fatalf("Failed to load places: %v", err)
	}

	outputPath := *output
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("places_%s.xlsx", timestamp)
	}
	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	count, err := writeWorkbook(outputPath, places, *publishedOnly, placeRepo)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	fileInfo, _ := os.Stat(outputPath)
	log.Printf("Exported %d places to %s (%.1f KB)", count, outputPath, float64(fileInfo.Size())/1024)
}

var headers = []string{
	"ID", "Title", "Slug", "Localisation", "Status", "Rating",
	"Price min", "Price max", "Price tier", "Type",
	"Latitude", "Longitude", "Keywords", "Created",
}

func writeWorkbook(path string, places []models.Place, publishedOnly bool, placeRepo *repository.PlaceRepository) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Places"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return 0, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return 0, err
		}
	}

	row := 2
	for _, place := range places {
		if publishedOnly && !place.IsPublished() {
			continue
		}

		// The listing query skips relations, reload for the keyword column.
		full, err := placeRepo.GetPlaceByID(place.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to load place %d: %w", place.ID, err)
		}
		if full == nil {
			continue
		}

		values := []interface{}{
			full.ID, full.Title, full.Slug, full.Localisation, full.Status, full.Rating,
			full.PriceMin, full.PriceMax, full.PriceInDollars, full.Type,
			full.Latitude, full.Longitude, strings.Join(full.Keywords, ", "),
			full.CreatedAt.Format("2006-01-02"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return 0, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return 0, err
			}
		}
		row++
	}

	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("failed to save workbook: %w", err)
	}
	return row - 2, nil
}
