package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/frahmantamala/asset-management/pkg/apiclient"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type pcSummary struct {
	ID       int64  `json:"id"`
	AssetTag string `json:"asset_tag"`
}

func newClient(baseURL string, token string) *apiclient.Client {
	cfg := apiclient.DefaultConfig(baseURL)
	cfg.RetryDelay = time.Millisecond
	if token != "" {
		cfg.TokenProvider = func() string { return token }
	}
	return apiclient.New(cfg, nil)
}

var _ = Describe("Client", func() {
	It("decodes typed responses and sends the bearer token", func() {
		var gotAuth atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth.Store(r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id": 7, "asset_tag": "PC-007"}`))
		}))
		defer server.Close()

		client := newClient(server.URL, "abc123")
		pc, err := apiclient.Get[pcSummary](context.Background(), client, "/api/v1/pcs/7")
		Expect(err).NotTo(HaveOccurred())
		Expect(pc.AssetTag).To(Equal("PC-007"))
		Expect(gotAuth.Load()).To(Equal("Bearer abc123"))
	})

	It("retries server errors until one succeeds", func() {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`{"id": 1, "asset_tag": "PC-001"}`))
		}))
		defer server.Close()

		client := newClient(server.URL, "")
		pc, err := apiclient.Get[pcSummary](context.Background(), client, "/api/v1/pcs/1")
		Expect(err).NotTo(HaveOccurred())
		Expect(pc.ID).To(Equal(int64(1)))
		Expect(calls.Load()).To(Equal(int32(3)))
	})

	It("never retries client errors", func() {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "invalid or expired session"}`))
		}))
		defer server.Close()

		client := newClient(server.URL, "expired")
		_, err := apiclient.Get[pcSummary](context.Background(), client, "/api/v1/pcs/1")

		var apiErr *apiclient.APIError
		Expect(err).To(BeAssignableToTypeOf(apiErr))
		apiErr = err.(*apiclient.APIError)
		Expect(apiErr.StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(apiErr.Message).To(Equal("invalid or expired session"))
		Expect(calls.Load()).To(Equal(int32(1)))
	})

	It("surfaces validation details from error responses", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "validation failed", "details": [{"field": "asset_tag", "message": "asset_tag is required"}]}`))
		}))
		defer server.Close()

		client := newClient(server.URL, "")
		_, err := apiclient.Post[pcSummary](context.Background(), client, "/api/v1/pcs", map[string]string{})

		apiErr, ok := err.(*apiclient.APIError)
		Expect(ok).To(BeTrue())
		Expect(apiErr.Details).To(HaveLen(1))
		Expect(apiErr.Details[0].Field).To(Equal("asset_tag"))
	})

	It("serves fresh cache entries without hitting the network", func() {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Write([]byte(`{"id": 2, "asset_tag": "PC-002"}`))
		}))
		defer server.Close()

		client := newClient(server.URL, "")
		for i := 0; i < 3; i++ {
			pc, err := apiclient.GetCached[pcSummary](context.Background(), client, "/api/v1/pcs/2")
			Expect(err).NotTo(HaveOccurred())
			Expect(pc.AssetTag).To(Equal("PC-002"))
		}
		Expect(calls.Load()).To(Equal(int32(1)))
	})
})

var _ = Describe("Cache", func() {
	It("expires entries past the gc deadline", func() {
		cache := apiclient.NewCache(time.Nanosecond, time.Nanosecond)
		cache.Set("k", "v")
		time.Sleep(time.Millisecond)

		_, _, ok := cache.Get("k")
		Expect(ok).To(BeFalse())
	})

	It("reports staleness between staleTime and gcTime", func() {
		cache := apiclient.NewCache(time.Nanosecond, time.Hour)
		cache.Set("k", "v")
		time.Sleep(time.Millisecond)

		value, fresh, ok := cache.Get("k")
		Expect(ok).To(BeTrue())
		Expect(fresh).To(BeFalse())
		Expect(value).To(Equal("v"))
	})
})

var _ = Describe("DismissalStore", func() {
	It("filters dismissed IDs and persists across reloads", func() {
		path := GinkgoT().TempDir() + "/dismissed.json"

		store, err := apiclient.NewDismissalStore(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Dismiss("warranty-1-2026-09-01")).To(Succeed())

		type note struct{ ID string }
		notes := []note{{ID: "warranty-1-2026-09-01"}, {ID: "maintenance-2"}}
		kept := apiclient.Filter(store, notes, func(n note) string { return n.ID })
		Expect(kept).To(HaveLen(1))
		Expect(kept[0].ID).To(Equal("maintenance-2"))

		reloaded, err := apiclient.NewDismissalStore(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(reloaded.IsDismissed("warranty-1-2026-09-01")).To(BeTrue())
	})
})
