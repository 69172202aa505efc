package app

import (
	"context"
	"fmt"

	"dealerhub/internal/domain"
)

// catalogSeed is the fixed sample catalog. Rows are written with
// upsert-by-natural-key SQL, so seeding is idempotent.
var catalogSeed = []struct {
	make   string
	models []string
}{
	{"Toyota", []string{"Camry", "Corolla", "Prius", "RAV4", "Highlander"}},
	{"Honda", []string{"Civic", "Accord", "CR-V", "Pilot", "Fit"}},
	{"Ford", []string{"F-150", "Mustang", "Explorer", "Escape", "Focus"}},
	{"BMW", []string{"3 Series", "5 Series", "X3", "X5", "i3"}},
	{"Mercedes-Benz", []string{"C-Class", "E-Class", "GLC", "GLE", "A-Class"}},
}

// SeedCatalog ensures the sample makes and models exist. Safe to call any
// number of times.
func SeedCatalog(ctx context.Context, repo domain.DealerRepository) error {
	for _, entry := range catalogSeed {
		makeID, err := repo.UpsertMake(ctx, domain.VehicleMake{
			Name:        entry.make,
			Description: fmt.Sprintf("%s vehicles", entry.make),
		})
		if err != nil {
			return fmt.Errorf("seed make %s: %w", entry.make, err)
		}
		for _, name := range entry.models {
			err := repo.UpsertModel(ctx, domain.VehicleModel{
				MakeID: makeID,
				Name:   name,
				Type:   "Sedan",
				Year:   domain.MaxCarYear,
			})
			if err != nil {
				return fmt.Errorf("seed model %s %s: %w", entry.make, name, err)
			}
		}
	}
	return nil
}
