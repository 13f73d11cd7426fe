package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/asset-inventory/internal"
	"github.com/frahmantamala/asset-inventory/internal/auth"
	"github.com/frahmantamala/asset-inventory/internal/core/datamodel"
	assetDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/asset"
	employeeDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/employee"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an admin account, a few employees and their assets for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApplication()
		if err != nil {
			log.Fatalf("failed to init application: %v", err)
		}
		defer app.Close()

		ctx, cancel := internal.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := seed(ctx, app); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	},
}

type seedEmployee struct {
	Name, Department, Position, Email string
	Assets                            []seedAsset
}

type seedAsset struct {
	AssetType, Brand, Model, SerialNo, Location string
}

var sampleEmployees = []seedEmployee{
	{
		Name: "Alice Tan", Department: "Finance", Position: "Accountant", Email: "alice@example.com",
		Assets: []seedAsset{
			{AssetType: "Laptop", Brand: "Dell", Model: "Latitude 5420", SerialNo: "DL-5420-001", Location: "HQ 3F"},
			{AssetType: "Monitor", Brand: "Dell", Model: "P2419H", SerialNo: "DL-P24-014", Location: "HQ 3F"},
		},
	},
	{
		Name: "Budi Santoso", Department: "Engineering", Position: "Developer", Email: "budi@example.com",
		Assets: []seedAsset{
			{AssetType: "Laptop", Brand: "Lenovo", Model: "ThinkPad T14", SerialNo: "LN-T14-203", Location: "HQ 5F"},
		},
	},
	{
		Name: "Chen Wei", Department: "Operations", Position: "Coordinator",
	},
}

var unassignedAssets = []seedAsset{
	{AssetType: "Printer", Brand: "HP", Model: "LaserJet M404", SerialNo: "HP-M404-077", Location: "HQ 1F"},
	{AssetType: "Laptop", Brand: "HP", Model: "EliteBook 840", SerialNo: "HP-840-120", Location: "Storage"},
}

func seed(ctx context.Context, app *application) error {
	if clearData {
		err := app.DB.Gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec("DELETE FROM assets").Error; err != nil {
				return err
			}
			return tx.Exec("DELETE FROM employees").Error
		})
		if err != nil {
			return fmt.Errorf("failed to clear inventory: %w", err)
		}
		fmt.Println("Cleared existing assets and employees")
	}

	_, err := app.AuthService.Register(ctx, auth.RegisterDTO{Username: "admin", Password: "password"})
	switch {
	case errors.Is(err, internal.ErrDuplicateUsername):
		fmt.Println("admin user already exists")
	case err != nil:
		return fmt.Errorf("failed to seed admin user: %w", err)
	default:
		fmt.Println("Seeded admin user: admin")
	}

	existing, err := app.Employees.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		fmt.Println("Employees already present; use --clear to reseed")
		return nil
	}

	for _, se := range sampleEmployees {
		row := &employeeDatamodel.Employee{
			Name:       se.Name,
			Department: datamodel.NullableString(se.Department),
			Position:   datamodel.NullableString(se.Position),
			Email:      datamodel.NullableString(se.Email),
		}
		if err := app.Employees.Create(ctx, row); err != nil {
			return fmt.Errorf("failed to insert employee %s: %w", se.Name, err)
		}
		fmt.Printf("Seeded employee: %s\n", se.Name)

		for _, sa := range se.Assets {
			if err := insertSampleAsset(ctx, app, sa, &row.ID); err != nil {
				return err
			}
		}
	}

	for _, sa := range unassignedAssets {
		if err := insertSampleAsset(ctx, app, sa, nil); err != nil {
			return err
		}
	}

	fmt.Println("Inventory seeded successfully")
	return nil
}

func insertSampleAsset(ctx context.Context, app *application, sa seedAsset, employeeID *int64) error {
	row := &assetDatamodel.Asset{
		AssetType:  sa.AssetType,
		Brand:      sa.Brand,
		Model:      datamodel.NullableString(sa.Model),
		SerialNo:   datamodel.NullableString(sa.SerialNo),
		Location:   datamodel.NullableString(sa.Location),
		Status:     assetDatamodel.DefaultStatus,
		EmployeeID: employeeID,
	}
	if err := app.Assets.Create(ctx, row); err != nil {
		return fmt.Errorf("failed to insert asset %s: %w", sa.SerialNo, err)
	}
	fmt.Printf("Seeded asset: %s %s (%s)\n", sa.Brand, sa.AssetType, sa.SerialNo)
	return nil
}
