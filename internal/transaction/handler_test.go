package transaction

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"cashbook/internal/auth"
)

var _ = ginkgo.Describe("Transaction Handler", func() {
	var (
		handler  *Handler
		mockRepo *mockTransactionRepository
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockTransactionRepository()
		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		handler = NewHandler(NewService(mockRepo, slogger))
	})

	post := func(target, body string, fn http.HandlerFunc) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
		req = req.WithContext(auth.ContextWithUser(req.Context(), &auth.User{ID: "user-1", Username: "alice"}))
		w := httptest.NewRecorder()
		fn(w, req)
		return w
	}

	ginkgo.Describe("CreateBatch", func() {
		ginkgo.It("saves a valid batch", func() {
			body := `{"transactions":[
				{"type":"expense","amount":50,"category":"food","description":"午餐","date":"2024-01-15"},
				{"type":"income","amount":1000,"category":"salary","description":"工资","date":"2024-01-10"}
			]}`

			w := post("/api/transactions/batch", body, handler.CreateBatch)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusCreated))

			var resp BatchCreateResponse
			gomega.Expect(json.NewDecoder(w.Body).Decode(&resp)).To(gomega.Succeed())
			gomega.Expect(resp.Success).To(gomega.BeTrue())
			gomega.Expect(resp.Saved).To(gomega.HaveLen(2))
		})

		ginkgo.It("reports the failing item index in the error envelope", func() {
			body := `{"transactions":[
				{"type":"expense","amount":50,"category":"food","description":"午餐","date":"2024-01-15"},
				{"type":"expense","amount":-10,"category":"food","description":"晚餐","date":"2024-01-16"}
			]}`

			w := post("/api/transactions/batch", body, handler.CreateBatch)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))

			var resp map[string]any
			gomega.Expect(json.NewDecoder(w.Body).Decode(&resp)).To(gomega.Succeed())
			gomega.Expect(resp["success"]).To(gomega.Equal(false))
			gomega.Expect(resp["error"]).To(gomega.ContainSubstring("item 1"))

			// the first item stays persisted
			gomega.Expect(mockRepo.rows).To(gomega.HaveLen(1))
		})
	})
})
