package recognition_test

import (
	"context"
	"io"
	"log/slog"

	"cashbook/internal"
	"cashbook/internal/category"
	"cashbook/internal/recognition"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockCompleter struct {
	content    string
	err        error
	calls      int
	lastAPIKey string
	lastModel  string
	lastPrompt string
	lastImage  string
}

func (m *mockCompleter) CompleteWithImage(ctx context.Context, apiKey, model, prompt, imageBase64 string) (string, error) {
	m.calls++
	m.lastAPIKey = apiKey
	m.lastModel = model
	m.lastPrompt = prompt
	m.lastImage = imageBase64
	return m.content, m.err
}

type mockCategoryProvider struct {
	income  []category.Category
	expense []category.Category
}

func (m *mockCategoryProvider) VisibleCategories(userID string) ([]category.Category, []category.Category, error) {
	return m.income, m.expense, nil
}

var _ = Describe("RecognitionService", func() {
	var (
		completer *mockCompleter
		provider  *mockCategoryProvider
		service   *recognition.Service
	)

	BeforeEach(func() {
		completer = &mockCompleter{
			content: `[{"date":"2024-01-15","amount":-50,"type":"expense","category":"food:餐饮","description":"午餐"}]`,
		}
		provider = &mockCategoryProvider{
			income:  category.IncomeCategories,
			expense: category.ExpenseCategories,
		}
		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = recognition.NewService(completer, provider, "server-key", "openai/gpt-4o", slogger)
	})

	It("runs the full pipeline and normalizes the result", func() {
		proposals, err := service.Recognize(context.Background(), "user-1", recognition.RecognizeDTO{ImageBase64: "aW1n"})

		Expect(err).NotTo(HaveOccurred())
		Expect(proposals).To(HaveLen(1))
		Expect(proposals[0].Category).To(Equal("food"))
		Expect(proposals[0].Amount.IsPositive()).To(BeTrue())

		Expect(completer.calls).To(Equal(1))
		Expect(completer.lastAPIKey).To(Equal("server-key"))
		Expect(completer.lastModel).To(Equal("openai/gpt-4o"))
		Expect(completer.lastImage).To(Equal("aW1n"))
	})

	It("rejects a missing image without calling upstream", func() {
		_, err := service.Recognize(context.Background(), "user-1", recognition.RecognizeDTO{})

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		Expect(completer.calls).To(BeZero())
	})

	It("prefers the request credential and model over the server defaults", func() {
		_, err := service.Recognize(context.Background(), "user-1", recognition.RecognizeDTO{
			ImageBase64: "aW1n",
			APIKey:      "caller-key",
			Model:       "anthropic/claude-sonnet",
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(completer.lastAPIKey).To(Equal("caller-key"))
		Expect(completer.lastModel).To(Equal("anthropic/claude-sonnet"))
	})

	It("reports a configuration error when no credential is available", func() {
		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		keyless := recognition.NewService(completer, provider, "", "", slogger)

		_, err := keyless.Recognize(context.Background(), "user-1", recognition.RecognizeDTO{ImageBase64: "aW1n"})

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeConfig))
		Expect(completer.calls).To(BeZero())
	})

	It("passes upstream errors through unchanged", func() {
		completer.err = internal.NewUpstreamError("recognition provider returned 429 Too Many Requests", internal.ErrCodeUpstreamFailed)
		completer.content = ""

		_, err := service.Recognize(context.Background(), "user-1", recognition.RecognizeDTO{ImageBase64: "aW1n"})

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeUpstream))
	})

	It("embeds the categories fetched at call time into the prompt", func() {
		_, err := service.Recognize(context.Background(), "user-1", recognition.RecognizeDTO{ImageBase64: "aW1n"})
		Expect(err).NotTo(HaveOccurred())
		Expect(completer.lastPrompt).To(ContainSubstring("food:餐饮"))
		Expect(completer.lastPrompt).NotTo(ContainSubstring("custom-"))

		provider.expense = append(provider.expense, category.Category{
			ID:   "custom-a1b2c3d4-e5f6-7890-abcd-ef0123456789",
			Name: "宠物",
			Type: category.TypeExpense,
		})

		_, err = service.Recognize(context.Background(), "user-1", recognition.RecognizeDTO{ImageBase64: "aW1n"})
		Expect(err).NotTo(HaveOccurred())
		Expect(completer.lastPrompt).To(ContainSubstring("custom-a1b2c3d4-e5f6-7890-abcd-ef0123456789:宠物"))
	})

	It("fails fast when the queue slot cannot be acquired", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		blocked := make(chan struct{})
		release := make(chan struct{})
		slow := &slowCompleter{started: blocked, release: release}
		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		serial := recognition.NewService(slow, provider, "server-key", "", slogger)

		go func() {
			defer GinkgoRecover()
			_, err := serial.Recognize(context.Background(), "user-1", recognition.RecognizeDTO{ImageBase64: "aW1n"})
			Expect(err).NotTo(HaveOccurred())
		}()
		Eventually(blocked).Should(BeClosed())

		_, err := serial.Recognize(ctx, "user-1", recognition.RecognizeDTO{ImageBase64: "aW1n"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))

		close(release)
	})
})

type slowCompleter struct {
	started chan struct{}
	release chan struct{}
}

func (s *slowCompleter) CompleteWithImage(ctx context.Context, apiKey, model, prompt, imageBase64 string) (string, error) {
	close(s.started)
	<-s.release
	return "[]", nil
}
