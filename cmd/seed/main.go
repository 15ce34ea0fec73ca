package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hndang/servihub-backend/config"
	"github.com/hndang/servihub-backend/internal/app/model"
	"github.com/hndang/servihub-backend/internal/app/repository"
	"github.com/hndang/servihub-backend/internal/db"
)

// Imports services from an xlsx export. Expected columns:
// Name, Type, Address, Geolocation, Phone, Website, Email, Description.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	serviceRepo := repository.NewServiceRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	services, err := readServicesFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total services to import: %d\n", len(services))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := serviceRepo.BulkCreate(services, batchSize); err != nil {
		log.Fatal("Failed to bulk create services:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total services imported: %d\n", len(services))
}

func readServicesFromXLSX(filePath string) ([]model.Service, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var services []model.Service
	seen := make(map[string]bool)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 2 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(cell(row, 0))
		serviceType := strings.TrimSpace(cell(row, 1))

		if name == "" || serviceType == "" {
			skippedCount++
			continue
		}

		// De-duplicate on name+type+address
		address := strings.TrimSpace(cell(row, 2))
		key := fmt.Sprintf("%s|%s|%s", name, serviceType, address)
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		services = append(services, model.Service{
			Name:        name,
			Type:        serviceType,
			Address:     address,
			Geolocation: strings.TrimSpace(cell(row, 3)),
			Phone:       strings.TrimSpace(cell(row, 4)),
			Website:     strings.TrimSpace(cell(row, 5)),
			Email:       strings.TrimSpace(cell(row, 6)),
			Description: strings.TrimSpace(cell(row, 7)),
		})

		if len(services)%500 == 0 {
			fmt.Printf("Processed %d services...\n", len(services))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid services: %d\n", len(services))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return services, nil
}

// cell reads a column that may be absent because trailing empty cells
// are trimmed from xlsx rows.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
