package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var _ = Describe("request logging", func() {
	Describe("redactBody", func() {
		It("should mask credential fields in JSON bodies", func() {
			out := redactBody([]byte(`{"email":"a@b.com","password":"hunter2"}`))
			Expect(out).To(ContainSubstring(`"email":"a@b.com"`))
			Expect(out).To(ContainSubstring(`"password":"[redacted]"`))
			Expect(out).NotTo(ContainSubstring("hunter2"))
		})

		It("should mask nested and array-held fields", func() {
			out := redactBody([]byte(`{"items":[{"refresh_token":"abc","name":"ok"}]}`))
			Expect(out).To(ContainSubstring(`"refresh_token":"[redacted]"`))
			Expect(out).To(ContainSubstring(`"name":"ok"`))
		})

		It("should drop non-JSON bodies that mention a sensitive key", func() {
			Expect(redactBody([]byte("password=hunter2"))).To(Equal("[redacted]"))
			Expect(redactBody([]byte("plain text"))).To(Equal("plain text"))
			Expect(redactBody(nil)).To(Equal(""))
		})
	})

	Describe("statusWriter", func() {
		It("should record explicit status and written size", func() {
			rec := httptest.NewRecorder()
			sw := &statusWriter{ResponseWriter: rec}

			sw.WriteHeader(http.StatusCreated)
			n, err := sw.Write([]byte("created"))
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(7))
			Expect(sw.status).To(Equal(http.StatusCreated))
			Expect(sw.size).To(Equal(7))
		})

		It("should default to 200 on an implicit write", func() {
			rec := httptest.NewRecorder()
			sw := &statusWriter{ResponseWriter: rec}

			_, err := sw.Write([]byte("ok"))
			Expect(err).NotTo(HaveOccurred())
			Expect(sw.status).To(Equal(http.StatusOK))
		})
	})
})
