// Command seed provisions the schema, an admin account and, when the
// catalog is empty, a handful of demo listings.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/realtyflow/api/internal/config"
	"github.com/realtyflow/api/internal/db"
	"github.com/realtyflow/api/internal/domain/property"
	"github.com/realtyflow/api/internal/observability"
	"github.com/realtyflow/api/internal/repo/postgres"
)

func main() {
	_ = godotenv.Load()

	log := observability.NewLogger(os.Getenv("APP_ENV"))

	// seeding refuses to guess at a database
	if os.Getenv("DATABASE_URL") == "" {
		log.Error("DATABASE_URL must be set")
		os.Exit(1)
	}

	cfg := config.Load()

	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin123456"
	}
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = "admin@example.com"
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("database connection failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Error("migration failed", "err", err)
		os.Exit(1)
	}

	if err := db.EnsureAdminUser(ctx, pool, cfg); err != nil {
		log.Error("seed admin failed", "err", err)
		os.Exit(1)
	}

	obs := observability.NewProm(prometheus.NewRegistry())

	users := postgres.NewUsersRepo(pool, obs)
	properties := postgres.NewPropertiesRepo(pool, obs)

	admin, err := users.GetByUsername(ctx, cfg.AdminUsername)

	if err != nil {
		log.Error("admin lookup failed", "err", err)
		os.Exit(1)
	}

	existing, err := properties.List(ctx)

	if err != nil {
		log.Error("listing lookup failed", "err", err)
		os.Exit(1)
	}

	if len(existing) > 0 {
		log.Info("properties already exist, skipping demo listings", "count", len(existing))
		return
	}

	for _, req := range demoListings() {
		if _, err := properties.Create(ctx, req, admin.ID); err != nil {
			log.Error("demo listing insert failed", "title", req.Title, "err", err)
			os.Exit(1)
		}
	}

	log.Info("seeded demo listings", "count", len(demoListings()), "admin", cfg.AdminUsername)
}

func demoListings() []property.CreateRequest {
	intp := func(v int) *int { return &v }
	strp := func(v string) *string { return &v }

	return []property.CreateRequest{
		{
			Title:        "Modern Family Home",
			Description:  "Spacious 4-bedroom home with open floor plan and sunny backyard.",
			Price:        "850000",
			Address:      "123 Maple St",
			City:         "San Mateo",
			State:        "CA",
			ZipCode:      "94401",
			PropertyType: "house",
			Status:       property.StatusAvailable,
			Bedrooms:     4,
			Bathrooms:    "2.5",
			SquareFeet:   2150,
			YearBuilt:    intp(1998),
			LotSize:      strp("0.12"),
			Garage:       intp(2),
			Features:     []string{"hardwood floors", "updated kitchen", "solar"},
		},
		{
			Title:        "Downtown Condo",
			Description:  "Stylish 2-bed condo with city views and amenities.",
			Price:        "620000",
			Address:      "77 Market St Apt 1203",
			City:         "San Francisco",
			State:        "CA",
			ZipCode:      "94103",
			PropertyType: "condo",
			Status:       property.StatusAvailable,
			Bedrooms:     2,
			Bathrooms:    "1.0",
			SquareFeet:   980,
			YearBuilt:    intp(2008),
			Garage:       intp(1),
			Features:     []string{"gym", "pool", "concierge"},
		},
		{
			Title:        "Suburban Townhouse",
			Description:  "Cozy 3-bed townhouse near parks and schools.",
			Price:        "540000",
			Address:      "456 Oak Ave",
			City:         "Pleasanton",
			State:        "CA",
			ZipCode:      "94566",
			PropertyType: "townhouse",
			Status:       property.StatusPending,
			Bedrooms:     3,
			Bathrooms:    "2.0",
			SquareFeet:   1350,
			YearBuilt:    intp(2002),
			LotSize:      strp("0.05"),
			Garage:       intp(2),
			Features:     []string{"patio", "community center"},
		},
	}
}
