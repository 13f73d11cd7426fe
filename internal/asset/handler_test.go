package asset_test

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/asset-inventory/internal/asset"
	assetPostgres "github.com/frahmantamala/asset-inventory/internal/asset/postgres"
	"github.com/frahmantamala/asset-inventory/internal/auth"
	"github.com/frahmantamala/asset-inventory/internal/core/datamodel"
	employeeDatamodel "github.com/frahmantamala/asset-inventory/internal/core/datamodel/employee"
	"github.com/frahmantamala/asset-inventory/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Asset Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
		who    auth.Identity
	)

	withIdentity := func(req *http.Request, id auth.Identity) *http.Request {
		return req.WithContext(auth.ContextWithIdentity(req.Context(), id))
	}

	send := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, withIdentity(req, who))
		return w
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(datamodel.AutoMigrate(db)).To(Succeed())

		service := asset.NewService(assetPostgres.NewAssetRepository(db), slogger)
		handler := asset.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Get("/assets", handler.ListAssets)
		router.Post("/assets", handler.CreateAsset)
		router.Get("/assets/{id}", handler.GetAsset)
		router.Put("/assets/{id}", handler.UpdateAsset)
		router.Delete("/assets/{id}", handler.DeleteAsset)

		who = auth.Identity{UserID: 1, Username: "admin", SessionID: "s-1"}
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	It("should search by holder name and brand", func() {
		alice := &employeeDatamodel.Employee{Name: "Alice"}
		Expect(db.Create(alice).Error).NotTo(HaveOccurred())

		w := send(http.MethodPost, "/assets", fmt.Sprintf(`{"asset_type":"Laptop","brand":"Dell","employee_id":%d}`, alice.ID))
		Expect(w.Code).To(Equal(http.StatusCreated))
		w = send(http.MethodPost, "/assets", `{"asset_type":"Monitor","brand":"HP"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = send(http.MethodGet, "/assets?q=ali", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var result asset.AssetsResponse
		Expect(json.NewDecoder(w.Body).Decode(&result)).To(Succeed())
		Expect(result.Count).To(Equal(1))
		Expect(result.Assets[0].Brand).To(Equal("Dell"))
		Expect(result.Assets[0].Employee.Name).To(Equal("Alice"))

		w = send(http.MethodGet, "/assets?q=hp", "")
		result = asset.AssetsResponse{}
		Expect(json.NewDecoder(w.Body).Decode(&result)).To(Succeed())
		Expect(result.Count).To(Equal(1))
		Expect(result.Assets[0].AssetType).To(Equal("Monitor"))

		w = send(http.MethodGet, "/assets", "")
		result = asset.AssetsResponse{}
		Expect(json.NewDecoder(w.Body).Decode(&result)).To(Succeed())
		Expect(result.Count).To(Equal(2))
	})

	It("should answer 422 with UNKNOWN_EMPLOYEE for a dangling employee", func() {
		w := send(http.MethodPost, "/assets", `{"asset_type":"Laptop","brand":"Dell","employee_id":99}`)

		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(w.Body.String()).To(ContainSubstring("UNKNOWN_EMPLOYEE"))
	})

	It("should answer 400 with field details for a missing brand", func() {
		w := send(http.MethodPost, "/assets", `{"asset_type":"Laptop"}`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(`"field":"brand"`))
	})

	It("should update and delete an asset", func() {
		w := send(http.MethodPost, "/assets", `{"asset_type":"Laptop","brand":"Dell"}`)
		var created asset.Asset
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		path := fmt.Sprintf("/assets/%d", created.ID)

		w = send(http.MethodPut, path, `{"asset_type":"Laptop","brand":"Lenovo","status":"Retired"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		var updated asset.Asset
		Expect(json.NewDecoder(w.Body).Decode(&updated)).To(Succeed())
		Expect(updated.Brand).To(Equal("Lenovo"))
		Expect(updated.Status).To(Equal("Retired"))

		Expect(send(http.MethodDelete, path, "").Code).To(Equal(http.StatusNoContent))
		w = send(http.MethodGet, path, "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring("ASSET_NOT_FOUND"))
	})

	It("should answer 401 without an identity", func() {
		req := httptest.NewRequest(http.MethodGet, "/assets?q=dell", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
