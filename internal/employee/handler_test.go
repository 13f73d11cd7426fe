package employee_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/asset-inventory/internal/auth"
	"github.com/frahmantamala/asset-inventory/internal/core/datamodel"
	"github.com/frahmantamala/asset-inventory/internal/employee"
	employeePostgres "github.com/frahmantamala/asset-inventory/internal/employee/postgres"
	"github.com/frahmantamala/asset-inventory/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Employee Handler Integration", func() {
	var (
		db      *gorm.DB
		handler *employee.Handler
		router  *chi.Mux
		who     auth.Identity
	)

	withIdentity := func(req *http.Request, id auth.Identity) *http.Request {
		return req.WithContext(auth.ContextWithIdentity(req.Context(), id))
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

		service := employee.NewService(employeePostgres.NewEmployeeRepository(db), slogger)
		handler = employee.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Get("/employees", handler.ListEmployees)
		router.Post("/employees", handler.CreateEmployee)
		router.Get("/employees/{id}", handler.GetEmployee)
		router.Delete("/employees/{id}", handler.DeleteEmployee)

		who = auth.Identity{UserID: 1, Username: "admin", SessionID: "s-1"}
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	It("should create and list employees", func() {
		body := `{"name":"Alice","department":"IT","email":"alice@x.com"}`
		req := withIdentity(httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body)), who)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
		var created employee.Employee
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.ID).To(BeNumerically(">", 0))
		Expect(created.Department).To(Equal("IT"))

		req = withIdentity(httptest.NewRequest(http.MethodGet, "/employees", nil), who)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var list employee.EmployeesResponse
		Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
		Expect(list.Count).To(Equal(1))
		Expect(list.Employees[0].Name).To(Equal("Alice"))
	})

	It("should answer 400 with DUPLICATE_EMAIL for a colliding email", func() {
		for i := 0; i < 2; i++ {
			req := withIdentity(httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"name":"Alice","email":"alice@x.com"}`)), who)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if i == 1 {
				Expect(w.Code).To(Equal(http.StatusBadRequest))
				Expect(w.Body.String()).To(ContainSubstring("DUPLICATE_EMAIL"))
			}
		}
	})

	It("should answer 401 with AUTH_REQUIRED without an identity", func() {
		req := httptest.NewRequest(http.MethodGet, "/employees", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(w.Body.String()).To(ContainSubstring("AUTH_REQUIRED"))
	})

	It("should answer 404 when deleting an unknown employee", func() {
		req := withIdentity(httptest.NewRequest(http.MethodDelete, "/employees/42", nil), who)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring("EMPLOYEE_NOT_FOUND"))
	})

	It("should answer 400 for a malformed id", func() {
		req := withIdentity(httptest.NewRequest(http.MethodDelete, "/employees/abc", nil), who)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
