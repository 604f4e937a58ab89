package recognition_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"cashbook/internal/auth"
	"cashbook/internal/category"
	"cashbook/internal/recognition"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Recognition Handler", func() {
	var (
		completer *mockCompleter
		handler   *recognition.Handler
	)

	BeforeEach(func() {
		completer = &mockCompleter{
			content: `[{"date":"2024-01-15","amount":-50,"type":"expense","category":"food:餐饮","description":"午餐"}]`,
		}
		provider := &mockCategoryProvider{
			income:  category.IncomeCategories,
			expense: category.ExpenseCategories,
		}
		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := recognition.NewService(completer, provider, "server-key", "", slogger)
		handler = recognition.NewHandler(service)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/recognize", strings.NewReader(body))
		req = req.WithContext(auth.ContextWithUser(req.Context(), &auth.User{ID: "user-1", Username: "alice"}))
		w := httptest.NewRecorder()
		handler.Recognize(w, req)
		return w
	}

	It("accepts the imageBase64 request shape", func() {
		w := post(`{"imageBase64":"aW1n"}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(completer.calls).To(Equal(1))
		Expect(completer.lastImage).To(Equal("aW1n"))

		var resp recognition.RecognitionResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Success).To(BeTrue())
		Expect(resp.Transactions).To(HaveLen(1))
		Expect(resp.Transactions[0].Category).To(Equal("food"))
	})

	It("passes through per-request credential and model overrides", func() {
		w := post(`{"imageBase64":"aW1n","apiKey":"caller-key","model":"anthropic/claude-sonnet"}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(completer.lastAPIKey).To(Equal("caller-key"))
		Expect(completer.lastModel).To(Equal("anthropic/claude-sonnet"))
	})

	It("rejects a body without an image", func() {
		w := post(`{"apiKey":"caller-key"}`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(completer.calls).To(BeZero())
	})

	It("rejects an unauthenticated request", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/recognize", strings.NewReader(`{"imageBase64":"aW1n"}`))
		w := httptest.NewRecorder()
		handler.Recognize(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
