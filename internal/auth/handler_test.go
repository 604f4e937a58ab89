package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		handler  *Handler
		mockRepo *mockAuthRepository
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockAuthRepository()
		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := NewService(mockRepo, bcrypt.MinCost, 7*24*time.Hour, slogger)
		handler = NewHandler(service)
	})

	login := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		w := httptest.NewRecorder()
		handler.Login(w, req)
		return w
	}

	sessionCookie := func(w *httptest.ResponseRecorder) *http.Cookie {
		for _, c := range w.Result().Cookies() {
			if c.Name == SessionCookieName {
				return c
			}
		}
		return nil
	}

	ginkgo.Describe("Login", func() {
		ginkgo.It("sets the session cookie on success", func() {
			w := login(`{"username":"alice","password":"correct_password"}`)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))

			cookie := sessionCookie(w)
			gomega.Expect(cookie).NotTo(gomega.BeNil())
			gomega.Expect(cookie.Value).To(gomega.HaveLen(64))
			gomega.Expect(cookie.HttpOnly).To(gomega.BeTrue())
			gomega.Expect(cookie.Path).To(gomega.Equal("/"))
			gomega.Expect(cookie.SameSite).To(gomega.Equal(http.SameSiteLaxMode))
			gomega.Expect(cookie.Secure).To(gomega.BeFalse())
			gomega.Expect(cookie.MaxAge).To(gomega.Equal(int((7 * 24 * time.Hour).Seconds())))

			var resp LoginResponse
			gomega.Expect(json.NewDecoder(w.Body).Decode(&resp)).To(gomega.Succeed())
			gomega.Expect(resp.Success).To(gomega.BeTrue())
			gomega.Expect(resp.User.Username).To(gomega.Equal("alice"))
		})

		ginkgo.It("marks the cookie secure behind a https proxy", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
				strings.NewReader(`{"username":"alice","password":"correct_password"}`))
			req.Header.Set("X-Forwarded-Proto", "https")
			w := httptest.NewRecorder()
			handler.Login(w, req)

			cookie := sessionCookie(w)
			gomega.Expect(cookie).NotTo(gomega.BeNil())
			gomega.Expect(cookie.Secure).To(gomega.BeTrue())
		})

		ginkgo.It("returns 401 and no cookie for wrong credentials", func() {
			w := login(`{"username":"alice","password":"nope"}`)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(sessionCookie(w)).To(gomega.BeNil())

			var resp map[string]any
			gomega.Expect(json.NewDecoder(w.Body).Decode(&resp)).To(gomega.Succeed())
			gomega.Expect(resp["success"]).To(gomega.Equal(false))
			gomega.Expect(resp["error"]).NotTo(gomega.BeEmpty())
		})

		ginkgo.It("rejects a malformed body", func() {
			w := login(`{`)
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("AuthMiddleware", func() {
		protected := func() http.Handler {
			return handler.AuthMiddleware(http.HandlerFunc(handler.Me))
		}

		ginkgo.It("lets a valid session through to the user identity", func() {
			w := login(`{"username":"alice","password":"correct_password"}`)
			cookie := sessionCookie(w)

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			req.AddCookie(cookie)
			rec := httptest.NewRecorder()
			protected().ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			var resp MeResponse
			gomega.Expect(json.NewDecoder(rec.Body).Decode(&resp)).To(gomega.Succeed())
			gomega.Expect(resp.User.ID).To(gomega.Equal("user-1"))
		})

		ginkgo.It("rejects a request without a cookie", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			rec := httptest.NewRecorder()
			protected().ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("rejects an expired session", func() {
			mockRepo.sessions["stale"] = &Session{
				ID:        "session-1",
				UserID:    "user-1",
				Token:     "stale",
				ExpiresAt: time.Now().Add(-time.Minute),
			}

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
			rec := httptest.NewRecorder()
			protected().ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("deletes the session and clears the cookie", func() {
			w := login(`{"username":"alice","password":"correct_password"}`)
			cookie := sessionCookie(w)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
			req.AddCookie(cookie)
			rec := httptest.NewRecorder()
			handler.Logout(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(mockRepo.sessions).To(gomega.BeEmpty())

			cleared := sessionCookie(rec)
			gomega.Expect(cleared).NotTo(gomega.BeNil())
			gomega.Expect(cleared.Value).To(gomega.BeEmpty())
			gomega.Expect(cleared.MaxAge).To(gomega.BeNumerically("<", 0))
		})
	})
})
