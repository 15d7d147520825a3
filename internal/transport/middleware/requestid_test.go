package middleware_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/asset-management/internal/transport/middleware"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RequestID", func() {
	serve := func(req *http.Request) (string, *httptest.ResponseRecorder) {
		var seen string
		handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = middleware.TraceIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return seen, rec
	}

	It("assigns one id, visible to handlers and echoed in the response header", func() {
		seen, rec := serve(httptest.NewRequest(http.MethodGet, "/api/v1/pcs", nil))

		Expect(seen).NotTo(BeEmpty())
		Expect(rec.Header().Get("X-Trace-ID")).To(Equal(seen))
		_, err := uuid.Parse(seen)
		Expect(err).NotTo(HaveOccurred())
	})

	It("honors a well-formed inbound X-Trace-ID", func() {
		inbound := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/pcs", nil)
		req.Header.Set("X-Trace-ID", inbound)

		seen, rec := serve(req)
		Expect(seen).To(Equal(inbound))
		Expect(rec.Header().Get("X-Trace-ID")).To(Equal(inbound))
	})

	It("replaces a malformed inbound X-Trace-ID", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/pcs", nil)
		req.Header.Set("X-Trace-ID", "not-a-uuid")

		seen, _ := serve(req)
		Expect(seen).NotTo(Equal("not-a-uuid"))
		_, err := uuid.Parse(seen)
		Expect(err).NotTo(HaveOccurred())
	})

	It("returns the empty string outside the middleware", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/pcs", nil)
		Expect(middleware.TraceIDFromContext(req.Context())).To(BeEmpty())
	})
})
