package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/frahmantamala/asset-inventory/internal"
	"github.com/frahmantamala/asset-inventory/internal/auth"
	authPostgres "github.com/frahmantamala/asset-inventory/internal/auth/postgres"
	"github.com/frahmantamala/asset-inventory/internal/core/datamodel"
	sessionDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/session"
	userDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestAuthPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Postgres Suite")
}

var _ = Describe("Auth PostgreSQL Repositories", func() {
	var (
		ctx      context.Context
		db       *gorm.DB
		users    auth.UserRepository
		sessions auth.SessionRepository
	)

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

		users = authPostgres.NewUserRepository(db)
		sessions = authPostgres.NewSessionRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("UserRepository", func() {
		It("should create and find a user", func() {
			row := &userDatamodel.User{Username: "admin", PasswordHash: "hash"}
			Expect(users.Create(ctx, row)).To(Succeed())
			Expect(row.ID).To(BeNumerically(">", 0))

			found, err := users.GetByUsername(ctx, "admin")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(row.ID))

			found, err = users.GetByID(ctx, row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Username).To(Equal("admin"))
		})

		It("should return nil for an unknown user", func() {
			found, err := users.GetByUsername(ctx, "ghost")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})

		It("should reject a duplicate username", func() {
			Expect(users.Create(ctx, &userDatamodel.User{Username: "admin", PasswordHash: "a"})).To(Succeed())

			err := users.Create(ctx, &userDatamodel.User{Username: "admin", PasswordHash: "b"})
			Expect(errors.Is(err, internal.ErrDuplicateUsername)).To(BeTrue())
		})
	})

	Describe("SessionRepository", func() {
		var owner *userDatamodel.User

		BeforeEach(func() {
			owner = &userDatamodel.User{Username: "admin", PasswordHash: "hash"}
			Expect(users.Create(ctx, owner)).To(Succeed())
		})

		It("should create, read and revoke a session", func() {
			row := &sessionDatamodel.Session{ID: "s-1", UserID: owner.ID, ExpiresAt: time.Now().Add(time.Hour)}
			Expect(sessions.Create(ctx, row)).To(Succeed())

			found, err := sessions.Get(ctx, "s-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.UserID).To(Equal(owner.ID))

			Expect(sessions.Delete(ctx, "s-1")).To(Succeed())
			Expect(sessions.Delete(ctx, "s-1")).To(Succeed())

			found, err = sessions.Get(ctx, "s-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})

		It("should purge only expired sessions", func() {
			now := time.Now()
			Expect(sessions.Create(ctx, &sessionDatamodel.Session{ID: "old", UserID: owner.ID, ExpiresAt: now.Add(-time.Minute)})).To(Succeed())
			Expect(sessions.Create(ctx, &sessionDatamodel.Session{ID: "live", UserID: owner.ID, ExpiresAt: now.Add(time.Hour)})).To(Succeed())

			purged, err := sessions.DeleteExpired(ctx, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(purged).To(Equal(int64(1)))

			live, err := sessions.Get(ctx, "live")
			Expect(err).NotTo(HaveOccurred())
			Expect(live).NotTo(BeNil())
		})
	})
})
