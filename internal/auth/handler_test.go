package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/asset-inventory/internal/transport"
	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = ginkgo.Describe("Auth Handler", func() {
	var router *chi.Mux

	post := func(path, body, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	ginkgo.BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := NewService(newMockUserRepository(), newMockSessionRepository(), NewJWTTokenGenerator(testSecret),
			Options{BCryptCost: bcrypt.MinCost}, logger)
		handler := NewHandler(&transport.BaseHandler{Logger: logger}, service)

		router = chi.NewRouter()
		router.Post("/auth/register", handler.Register)
		router.Post("/auth/login", handler.Login)
		router.Group(func(r chi.Router) {
			r.Use(handler.AuthMiddleware)
			r.Post("/auth/logout", handler.Logout)
			r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
				who, _ := IdentityFromContext(r.Context())
				_ = json.NewEncoder(w).Encode(who)
			})
		})
	})

	ginkgo.It("should register, log in, reach a protected route and log out", func() {
		w := post("/auth/register", `{"username":"admin","password":"secret"}`, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusCreated))
		gomega.Expect(w.Body.String()).ToNot(gomega.ContainSubstring("secret"))

		w = post("/auth/login", `{"username":"admin","password":"secret"}`, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		var session Session
		gomega.Expect(json.NewDecoder(w.Body).Decode(&session)).To(gomega.Succeed())
		gomega.Expect(session.Token).ToNot(gomega.BeEmpty())

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+session.Token)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring(`"username":"admin"`))

		w = post("/auth/logout", "", session.Token)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusNoContent))

		w = post("/auth/logout", "", session.Token)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("AUTH_REQUIRED"))
	})

	ginkgo.It("should answer 409 for a duplicate username", func() {
		gomega.Expect(post("/auth/register", `{"username":"admin","password":"a"}`, "").Code).To(gomega.Equal(http.StatusCreated))

		w := post("/auth/register", `{"username":"admin","password":"b"}`, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusConflict))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("DUPLICATE_USERNAME"))
	})

	ginkgo.It("should answer 401 for bad credentials", func() {
		w := post("/auth/login", `{"username":"ghost","password":"x"}`, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("INVALID_CREDENTIALS"))
	})

	ginkgo.It("should answer 401 without a bearer token", func() {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("should answer 400 for a malformed body", func() {
		w := post("/auth/login", `{"username":`, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))
	})
})
