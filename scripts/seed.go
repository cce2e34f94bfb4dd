package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/bizlink/directory-backend/internal/adapters/database"
	"github.com/bizlink/directory-backend/internal/domain/entities"
	"github.com/bizlink/directory-backend/internal/infrastructure/clients/postgres"
	"github.com/bizlink/directory-backend/pkg/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	repo := database.NewBusinessAdapter(pgClient)
	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating businesses before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, "TRUNCATE TABLE businesses"); err != nil {
			log.Fatalf("Failed to truncate: %v", err)
		}
	}

	for _, business := range sampleBusinesses() {
		if err := repo.Create(ctx, business); err != nil {
			log.Fatalf("Failed to seed %q: %v", business.Name, err)
		}
		log.Printf("Seeded %s (%s)", business.Name, business.ID)
	}

	log.Println("Seeding complete")
}

func sampleBusinesses() []*entities.Business {
	return []*entities.Business{
		{
			ID:          uuid.NewString(),
			Name:        "Harbor View Restaurant",
			Brief:       "Seafood restaurant by the harbor",
			Description: "Family-run seafood restaurant serving fresh catch daily since 1998",
			Categories:  []string{"Restaurant", "Seafood"},
			Addresses: []entities.Address{{
				Lines:        []string{"12 Harbor Road"},
				City:         "Kochi",
				Link:         "https://maps.google.com/harborview",
				PhoneNumbers: []entities.PhoneNumber{{Number: "9876543210", CountryCode: "+91", HasWhatsapp: true}},
				Emails:       []string{"hello@harborview.example"},
			}},
			UserID:    "seed",
			CreatedBy: "seed",
			UpdatedBy: "seed",
		},
		{
			ID:          uuid.NewString(),
			Name:        "Bella Fashion House",
			Brief:       "Designer clothing boutique",
			Description: "Curated designer wear and accessories for every occasion",
			Categories:  []string{"Retail", "Fashion"},
			Addresses: []entities.Address{
				{
					Lines:        []string{"456 Oak Avenue", "Floor 2"},
					City:         "Mumbai",
					PhoneNumbers: []entities.PhoneNumber{{Number: "2345678901", CountryCode: "+91"}},
					Emails:       []string{"mumbai@bellafashion.example"},
				},
				{
					Lines:        []string{"789 Pine Street", "Shop 45"},
					City:         "Pune",
					PhoneNumbers: []entities.PhoneNumber{{Number: "3456789012", CountryCode: "+91", HasWhatsapp: true}},
					Emails:       []string{"pune@bellafashion.example"},
				},
			},
			UserID:    "seed",
			CreatedBy: "seed",
			UpdatedBy: "seed",
		},
		{
			ID:          uuid.NewString(),
			Name:        "Crystal Legal Services",
			Brief:       "Legal advice for small businesses",
			Description: "Contracts, compliance and dispute resolution for growing companies",
			Categories:  []string{"Legal Services"},
			Addresses: []entities.Address{{
				Lines:        []string{"3 Court Lane"},
				City:         "Rajkot",
				PhoneNumbers: []entities.PhoneNumber{{Number: "4567890123", CountryCode: "+91"}},
				Emails:       []string{"desk@crystallegal.example"},
			}},
			UserID:    "seed",
			CreatedBy: "seed",
			UpdatedBy: "seed",
		},
	}
}
