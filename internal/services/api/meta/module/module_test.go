package module

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"followstats/internal/modkit"
	phttp "followstats/internal/platform/net/http"
	"followstats/internal/platform/store/kv"

	"github.com/go-chi/chi/v5"
)

func TestModule_MountsUnderMeta(t *testing.T) {
	mem, err := kv.NewMemory(4)
	if err != nil {
		t.Fatal(err)
	}
	m := New(modkit.Deps{KV: mem})
	if m.Name() != "meta" || m.Ports() != nil {
		t.Fatalf("module = %s %v", m.Name(), m.Ports())
	}
	r := phttp.AdaptChi(chi.NewRouter())
	m.MountRoutes(r)

	for _, p := range []string{"/meta/health", "/meta/ready", "/meta/version", "/meta/service"} {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest("GET", p, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s = %d", p, rec.Code)
		}
	}
}
