package seeders

import (
	"context"

	"github.com/jantrick/jantrick/app/models"
)

func init() {
	Register("tools", SeedTools)
	Register("admin", SeedAdmin)
}

var demoTools = []models.Document{
	{"name": "Cordless Drill", "description": "18V drill driver with two batteries", "price": 2499, "minimumOrder": 10, "availableQuantity": 400},
	{"name": "Claw Hammer", "description": "16 oz forged steel hammer", "price": 349, "minimumOrder": 50, "availableQuantity": 1200},
	{"name": "Angle Grinder", "description": "850W grinder, 100 mm disc", "price": 1899, "minimumOrder": 10, "availableQuantity": 250},
	{"name": "Pipe Wrench", "description": "14 inch cast iron wrench", "price": 599, "minimumOrder": 25, "availableQuantity": 800},
	{"name": "Screwdriver Set", "description": "12 piece insulated set", "price": 449, "minimumOrder": 40, "availableQuantity": 1500},
}

// SeedTools inserts the demo catalogue into an empty tools collection.
func SeedTools(ctx context.Context, t Target) error {
	existing, err := t.Stores.Tools.All(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, tool := range demoTools {
		doc := make(models.Document, len(tool))
		for k, v := range tool {
			doc[k] = v
		}
		if _, err := t.Stores.Tools.Insert(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// SeedAdmin creates the configured admin user and grants the role.
func SeedAdmin(ctx context.Context, t Target) error {
	if t.AdminEmail == "" {
		return nil
	}
	if _, err := t.Stores.Users.Upsert(ctx, t.AdminEmail, models.Document{models.UserFieldEmail: t.AdminEmail}); err != nil {
		return err
	}
	_, err := t.Stores.Users.SetRole(ctx, t.AdminEmail, models.RoleAdmin)
	return err
}
