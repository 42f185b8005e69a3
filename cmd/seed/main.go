package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/aryankm/modacart-backend/config"
	"github.com/aryankm/modacart-backend/internal/app/model"
	"github.com/aryankm/modacart-backend/internal/app/repository"
	"github.com/aryankm/modacart-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Seeds the product catalog. With no arguments the built-in sample catalog
// is inserted; with an XLSX path the catalog is imported from the file.
//
// Expected columns: name, description, price, image, category, gender,
// sizes, colors. Sizes and colors are comma-separated option lists.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if len(os.Args) < 2 {
		if err := db.Seed(); err != nil {
			log.Fatal("Failed to seed sample catalog:", err)
		}
		fmt.Println("Sample catalog seeded.")
		return
	}

	filePath := os.Args[1]
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	productRepo := repository.NewProductRepository(db.GetDB())

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(filePath string) ([]model.Product, error) {
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

	var products []model.Product
	seen := make(map[string]bool)
	skippedCount := 0

	for i, row := range rows {
		// First row is the header
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 8 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		description := strings.TrimSpace(row[1])
		priceStr := strings.TrimSpace(row[2])
		image := strings.TrimSpace(row[3])
		category := strings.TrimSpace(row[4])
		gender := strings.TrimSpace(row[5])
		sizes := normalizeOptionList(row[6])
		colors := normalizeOptionList(row[7])

		if name == "" || priceStr == "" {
			skippedCount++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			skippedCount++
			continue
		}

		// Duplicate check by name within the file
		key := strings.ToLower(name)
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		products = append(products, model.Product{
			Name:        name,
			Description: description,
			Price:       price,
			Image:       image,
			Category:    strings.ToLower(category),
			Gender:      strings.ToLower(gender),
			Sizes:       sizes,
			Colors:      colors,
		})

		if len(products)%500 == 0 {
			fmt.Printf("Processed %d products...\n", len(products))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return products, nil
}

// normalizeOptionList trims each comma-separated entry so option checks
// against cart lines compare cleanly
func normalizeOptionList(raw string) string {
	parts := strings.Split(raw, ",")
	cleaned := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, ",")
}
