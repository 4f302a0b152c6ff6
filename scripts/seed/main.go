package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/odyssey-erp/itstock/internal/app"
	"github.com/odyssey-erp/itstock/internal/inventory"
)

// seedFile is the YAML layout accepted by the seeder.
type seedFile struct {
	Categories []string   `yaml:"categories"`
	Items      []seedItem `yaml:"items"`
}

type seedItem struct {
	Name         string `yaml:"name"`
	Category     string `yaml:"category"`
	Quantity     int    `yaml:"quantity"`
	MinThreshold int    `yaml:"min_threshold"`
	Location     string `yaml:"location"`
	Reference    string `yaml:"reference"`
}

func main() {
	path := "scripts/seed/samples/items.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("open %s: %v", path, err)
	}
	defer func() { _ = file.Close() }()
	seed, err := parseSeed(file)
	if err != nil {
		log.Fatalf("parse %s: %v", path, err)
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	ctx := context.Background()
	container, err := app.OpenContainer(ctx, cfg, app.NewLogger(cfg))
	if err != nil {
		log.Fatalf("open container: %v", err)
	}
	defer func() { _ = container.Close() }()

	fmt.Println("→ Seeding categories...")
	for _, name := range seed.Categories {
		container.Categories.Add(ctx, name)
	}
	fmt.Println("→ Seeding items...")
	created, skipped, err := seedItems(ctx, container.Inventory, seed.Items)
	if err != nil {
		log.Fatalf("seed items: %v", err)
	}
	fmt.Printf("✓ Seed complete: %d created, %d skipped\n", created, skipped)
}

func parseSeed(r io.Reader) (seedFile, error) {
	var seed seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return seedFile{}, nil
		}
		return seedFile{}, err
	}
	return seed, nil
}

// seedItems creates every item not already present by name, so reruns are idempotent.
func seedItems(ctx context.Context, svc *inventory.Service, items []seedItem) (created, skipped int, err error) {
	for _, it := range items {
		if _, findErr := svc.FindByName(ctx, it.Name); findErr == nil {
			skipped++
			continue
		}
		_, err = svc.CreateItem(ctx, inventory.ItemInput{
			Name:         it.Name,
			Category:     strings.TrimSpace(it.Category),
			Quantity:     it.Quantity,
			MinThreshold: it.MinThreshold,
			Location:     it.Location,
			Reference:    it.Reference,
		}, "seed")
		if err != nil {
			return created, skipped, fmt.Errorf("%s: %w", it.Name, err)
		}
		created++
	}
	return created, skipped, nil
}
