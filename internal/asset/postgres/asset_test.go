package postgres_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/frahmantamala/asset-inventory/internal"
	"github.com/frahmantamala/asset-inventory/internal/asset"
	assetPostgres "github.com/frahmantamala/asset-inventory/internal/asset/postgres"
	"github.com/frahmantamala/asset-inventory/internal/core/datamodel"
	assetDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/asset"
	employeeDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestAssetPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Asset Postgres Suite")
}

func strPtr(s string) *string { return &s }

func idPtr(id int64) *int64 { return &id }

func ids(rows []*assetDatamodel.Asset) []int64 {
	out := make([]int64, len(rows))
	for i, row := range rows {
		out[i] = row.ID
	}
	return out
}

var withEmployee = asset.ListOptions{WithEmployee: true}

var _ = Describe("Asset PostgreSQL Repository", func() {
	var (
		ctx  context.Context
		db   *gorm.DB
		repo asset.RepositoryAPI
	)

	newEmployee := func(name string) *employeeDatamodel.Employee {
		row := &employeeDatamodel.Employee{Name: name}
		Expect(db.Create(row).Error).NotTo(HaveOccurred())
		return row
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()

		db, err = gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(datamodel.AutoMigrate(db)).To(Succeed())

		repo = assetPostgres.NewAssetRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Create", func() {
		It("should store an unassigned asset with the default status", func() {
			row := &assetDatamodel.Asset{AssetType: "Laptop", Brand: "Dell"}

			Expect(repo.Create(ctx, row)).To(Succeed())
			Expect(row.ID).To(BeNumerically(">", 0))

			found, err := repo.GetByID(ctx, row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.EmployeeID).To(BeNil())
			Expect(found.Employee).To(BeNil())
			Expect(found.Status).To(Equal("Active"))
			Expect(found.Model).To(BeNil())
		})

		It("should join the holder when an employee is assigned", func() {
			alice := newEmployee("Alice")
			row := &assetDatamodel.Asset{AssetType: "Laptop", Brand: "Dell", EmployeeID: idPtr(alice.ID)}

			Expect(repo.Create(ctx, row)).To(Succeed())
			Expect(row.Employee).NotTo(BeNil())
			Expect(row.Employee.Name).To(Equal("Alice"))
		})

		It("should reject an unknown employee and leave no row behind", func() {
			row := &assetDatamodel.Asset{AssetType: "Laptop", Brand: "Dell", EmployeeID: idPtr(999)}

			err := repo.Create(ctx, row)
			Expect(errors.Is(err, internal.ErrUnknownEmployee)).To(BeTrue())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeReference))

			rows, err := repo.List(ctx, asset.ListOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})
	})

	Describe("Update", func() {
		It("should return the submitted values on the next read", func() {
			alice := newEmployee("Alice")
			row := &assetDatamodel.Asset{
				AssetType: "Laptop",
				Brand:     "Dell",
				Model:     strPtr("XPS"),
				Location:  strPtr("HQ"),
			}
			Expect(repo.Create(ctx, row)).To(Succeed())

			update := &assetDatamodel.Asset{
				ID:         row.ID,
				AssetType:  "Monitor",
				Brand:      "HP",
				SerialNo:   strPtr("SN-42"),
				Status:     "In Repair",
				EmployeeID: idPtr(alice.ID),
			}
			Expect(repo.Update(ctx, update)).To(Succeed())

			found, err := repo.GetByID(ctx, row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.AssetType).To(Equal("Monitor"))
			Expect(found.Brand).To(Equal("HP"))
			Expect(found.Model).To(BeNil())
			Expect(found.Location).To(BeNil())
			Expect(*found.SerialNo).To(Equal("SN-42"))
			Expect(found.Status).To(Equal("In Repair"))
			Expect(*found.EmployeeID).To(Equal(alice.ID))
			Expect(found.Employee.Name).To(Equal("Alice"))
			Expect(update.Employee).NotTo(BeNil())
		})

		It("should unassign the asset when employee_id is cleared", func() {
			alice := newEmployee("Alice")
			row := &assetDatamodel.Asset{AssetType: "Laptop", Brand: "Dell", EmployeeID: idPtr(alice.ID)}
			Expect(repo.Create(ctx, row)).To(Succeed())

			Expect(repo.Update(ctx, &assetDatamodel.Asset{ID: row.ID, AssetType: "Laptop", Brand: "Dell"})).To(Succeed())

			found, err := repo.GetByID(ctx, row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.EmployeeID).To(BeNil())
			Expect(found.Status).To(Equal("Active"))
		})

		It("should return not found for a missing asset", func() {
			err := repo.Update(ctx, &assetDatamodel.Asset{ID: 404, AssetType: "Laptop", Brand: "Dell"})
			Expect(errors.Is(err, internal.ErrAssetNotFound)).To(BeTrue())
		})

		It("should reject an unknown employee and keep the stored values", func() {
			row := &assetDatamodel.Asset{AssetType: "Laptop", Brand: "Dell"}
			Expect(repo.Create(ctx, row)).To(Succeed())

			err := repo.Update(ctx, &assetDatamodel.Asset{ID: row.ID, AssetType: "Monitor", Brand: "HP", EmployeeID: idPtr(77)})
			Expect(errors.Is(err, internal.ErrUnknownEmployee)).To(BeTrue())

			found, err := repo.GetByID(ctx, row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.AssetType).To(Equal("Laptop"))
		})
	})

	Describe("Delete", func() {
		It("should make the asset unreadable", func() {
			row := &assetDatamodel.Asset{AssetType: "Laptop", Brand: "Dell"}
			Expect(repo.Create(ctx, row)).To(Succeed())

			Expect(repo.Delete(ctx, row.ID)).To(Succeed())

			_, err := repo.GetByID(ctx, row.ID)
			Expect(errors.Is(err, internal.ErrAssetNotFound)).To(BeTrue())
		})

		It("should return not found when deleting twice", func() {
			row := &assetDatamodel.Asset{AssetType: "Laptop", Brand: "Dell"}
			Expect(repo.Create(ctx, row)).To(Succeed())
			Expect(repo.Delete(ctx, row.ID)).To(Succeed())

			Expect(errors.Is(repo.Delete(ctx, row.ID), internal.ErrAssetNotFound)).To(BeTrue())
		})
	})

	Describe("Search", func() {
		It("should find assets by holder name and by brand", func() {
			alice := newEmployee("Alice")
			dell := &assetDatamodel.Asset{AssetType: "Laptop", Brand: "Dell", EmployeeID: idPtr(alice.ID)}
			hp := &assetDatamodel.Asset{AssetType: "Monitor", Brand: "HP"}
			Expect(repo.Create(ctx, dell)).To(Succeed())
			Expect(repo.Create(ctx, hp)).To(Succeed())

			rows, err := repo.Search(ctx, "ali", withEmployee)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(rows)).To(Equal([]int64{dell.ID}))
			Expect(rows[0].Employee.Name).To(Equal("Alice"))

			rows, err = repo.Search(ctx, "hp", withEmployee)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(rows)).To(Equal([]int64{hp.ID}))
			Expect(rows[0].Employee).To(BeNil())

			rows, err = repo.Search(ctx, "zzz", withEmployee)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})

		It("should treat an empty keyword as no filter", func() {
			Expect(repo.Create(ctx, &assetDatamodel.Asset{AssetType: "Laptop", Brand: "Dell"})).To(Succeed())
			Expect(repo.Create(ctx, &assetDatamodel.Asset{AssetType: "Monitor", Brand: "HP"})).To(Succeed())

			all, err := repo.List(ctx, withEmployee)
			Expect(err).NotTo(HaveOccurred())

			rows, err := repo.Search(ctx, "", withEmployee)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(rows)).To(Equal(ids(all)))
		})

		It("should match surrounding spaces literally", func() {
			dell := &assetDatamodel.Asset{AssetType: "Laptop", Brand: "Dell"}
			phone := &assetDatamodel.Asset{AssetType: "Desk Phone", Brand: "Cisco"}
			Expect(repo.Create(ctx, dell)).To(Succeed())
			Expect(repo.Create(ctx, phone)).To(Succeed())

			rows, err := repo.Search(ctx, " ", withEmployee)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(rows)).To(Equal([]int64{phone.ID}))

			rows, err = repo.Search(ctx, "Dell ", withEmployee)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})

		It("should fold non-ASCII letters", func() {
			screen := &assetDatamodel.Asset{AssetType: "Monitor", Brand: "Samsung", Location: strPtr("Salle ÉCRAN")}
			Expect(repo.Create(ctx, screen)).To(Succeed())

			rows, err := repo.Search(ctx, "écran", withEmployee)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(rows)).To(Equal([]int64{screen.ID}))
		})

		It("should leave the holder unloaded when not asked for", func() {
			alice := newEmployee("Alice")
			row := &assetDatamodel.Asset{AssetType: "Laptop", Brand: "Dell", EmployeeID: idPtr(alice.ID)}
			Expect(repo.Create(ctx, row)).To(Succeed())

			rows, err := repo.Search(ctx, "alice", asset.ListOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(rows)).To(Equal([]int64{row.ID}))
			Expect(rows[0].Employee).To(BeNil())
		})

		It("should return exactly the assets containing the keyword in a searched column", func() {
			bob := newEmployee("Bob Stone")
			mira := newEmployee("Mira_50%")

			fixtures := []*assetDatamodel.Asset{
				{AssetType: "Laptop", Brand: "Dell", Model: strPtr("Latitude 5420"), Location: strPtr("HQ Floor 2")},
				{AssetType: "Monitor", Brand: "HP", SerialNo: strPtr("CN-44X"), EmployeeID: idPtr(bob.ID)},
				{AssetType: "Phone", Brand: "Apple", PartNo: strPtr("A2403"), Status: "Lost"},
				{AssetType: "Docking Station", Brand: "Lenovo", Location: strPtr("Warehouse"), EmployeeID: idPtr(mira.ID)},
				{AssetType: "Laptop", Brand: "Apple", Model: strPtr("MacBook Pro"), Status: "In Repair"},
				{AssetType: "Printer", Brand: "Brother", Model: strPtr("HL_100%")},
				{AssetType: "Monitor", Brand: "Samsung", Location: strPtr("Salle ÉCRAN")},
			}
			for _, f := range fixtures {
				Expect(repo.Create(ctx, f)).To(Succeed())
			}

			holder := map[int64]string{bob.ID: bob.Name, mira.ID: mira.Name}
			matches := func(a *assetDatamodel.Asset, kw string) bool {
				fields := []string{a.AssetType, a.Brand, a.Status}
				for _, p := range []*string{a.Model, a.PartNo, a.SerialNo, a.Location} {
					if p != nil {
						fields = append(fields, *p)
					}
				}
				if a.EmployeeID != nil {
					fields = append(fields, holder[*a.EmployeeID])
				}
				for _, f := range fields {
					if strings.Contains(strings.ToLower(f), strings.ToLower(kw)) {
						return true
					}
				}
				return false
			}

			keywords := []string{
				"laptop", "APPLE", "a", "44x", "stone", "floor", "repair", "active",
				"_", "%", "50%", "L_titude", "l%p", "x", "warehouse", "nothing-here",
				" ", "Dell ", " pro", "écran", "ÉCRAN",
			}
			for _, kw := range keywords {
				var expected []int64
				for _, f := range fixtures {
					if matches(f, kw) {
						expected = append(expected, f.ID)
					}
				}
				sort.Slice(expected, func(i, j int) bool { return expected[i] < expected[j] })

				rows, err := repo.Search(ctx, kw, withEmployee)
				Expect(err).NotTo(HaveOccurred())
				if len(expected) == 0 {
					Expect(rows).To(BeEmpty(), "keyword %q", kw)
				} else {
					Expect(ids(rows)).To(Equal(expected), "keyword %q", kw)
				}
			}
		})
	})

	Describe("Employee deletion", func() {
		It("should keep held assets and clear their holder", func() {
			alice := newEmployee("Alice")
			row := &assetDatamodel.Asset{AssetType: "Laptop", Brand: "Dell", EmployeeID: idPtr(alice.ID)}
			Expect(repo.Create(ctx, row)).To(Succeed())

			Expect(db.Delete(&employeeDatamodel.Employee{}, alice.ID).Error).NotTo(HaveOccurred())

			found, err := repo.GetByID(ctx, row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.EmployeeID).To(BeNil())
		})
	})
})

var _ = Describe("Asset repository on a broken connection", func() {
	var (
		mock sqlmock.Sqlmock
		repo asset.RepositoryAPI
	)

	BeforeEach(func() {
		sqlDB, m, err := sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
		mock = m

		db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		repo = assetPostgres.NewAssetRepository(db)
		DeferCleanup(sqlDB.Close)
	})

	It("should surface a store error from every operation", func() {
		calls := []func() error{
			func() error { return repo.Create(context.Background(), &assetDatamodel.Asset{AssetType: "Laptop", Brand: "Dell"}) },
			func() error { _, err := repo.GetByID(context.Background(), 1); return err },
			func() error { return repo.Update(context.Background(), &assetDatamodel.Asset{ID: 1, AssetType: "Laptop", Brand: "Dell"}) },
			func() error { return repo.Delete(context.Background(), 1) },
			func() error { _, err := repo.List(context.Background(), withEmployee); return err },
			func() error { _, err := repo.Search(context.Background(), "dell", withEmployee); return err },
		}

		for _, call := range calls {
			mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

			err := call()
			Expect(errors.Is(err, internal.ErrStore)).To(BeTrue())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
		}
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("should search with an escaped, unmodified keyword on postgres", func() {
		pattern := `% 50\%%`
		args := make([]driver.Value, 8)
		for i := range args {
			args[i] = pattern
		}

		mock.ExpectBegin()
		mock.ExpectQuery(`LEFT JOIN employees ON employees.id = assets.employee_id WHERE .*LOWER\(assets\.asset_type\) LIKE LOWER\(\$1\) ESCAPE '\\'`).
			WithArgs(args...).
			WillReturnRows(sqlmock.NewRows([]string{"id", "asset_type", "brand"}))
		mock.ExpectCommit()

		rows, err := repo.Search(context.Background(), " 50%", withEmployee)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(BeEmpty())
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})
})
