package logger

import (
	"context"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestLogger(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Logger Package Suite")
}

var _ = ginkgo.Describe("Logger", func() {
	ginkgo.It("falls back to the process logger when the context carries none", func() {
		gomega.Expect(From(context.Background())).To(gomega.Equal(LoggerWrapper()))
	})

	ginkgo.It("returns the logger attached via With", func() {
		ctx := With(context.Background(), "request_id", "req-1")

		attached := From(ctx)
		gomega.Expect(attached).NotTo(gomega.BeNil())
		gomega.Expect(attached).NotTo(gomega.Equal(LoggerWrapper()))
	})

	ginkgo.It("chains fields across nested With calls", func() {
		ctx := With(context.Background(), "request_id", "req-1")
		inner := With(ctx, "user_id", "user-1")

		gomega.Expect(From(inner)).NotTo(gomega.Equal(From(ctx)))
	})
})
