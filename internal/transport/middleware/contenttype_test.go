package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/asset-management/internal/transport/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RequireJSON", func() {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	It("rejects a POST without a JSON content type", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/pcs", strings.NewReader("asset_tag=PC-001"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rec := httptest.NewRecorder()
		middleware.RequireJSON(okHandler).ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusUnsupportedMediaType))
		Expect(rec.Body.String()).To(ContainSubstring(`"error"`))
	})

	It("accepts JSON with a charset parameter", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/pcs", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")

		rec := httptest.NewRecorder()
		middleware.RequireJSON(okHandler).ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("ignores content type on GET and DELETE", func() {
		for _, method := range []string{http.MethodGet, http.MethodDelete} {
			req := httptest.NewRequest(method, "/api/v1/pcs/1", nil)
			rec := httptest.NewRecorder()
			middleware.RequireJSON(okHandler).ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
		}
	})
})
