package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aarcnorm/internal/modkit/module"
	"aarcnorm/internal/platform/config"
	phttp "aarcnorm/internal/platform/net/http"
	normmod "aarcnorm/internal/services/normalizer/module"

	"github.com/go-chi/chi/v5"
)

const rawCSV = `PersonId,PersonName,Gender,DegreeYear,DegreeInstitutionId,DepartmentId,DepartmentName,InstitutionId,InstitutionName,Year,Rank,PrimaryAppointment,Taxonomy,Umbrella,Area,Field
1,Ada,F,1990,10,100,Math,10,Uni A,2011,Professor,True,Mathematics,STEM,Math,Algebra
2,Bob,M,2001,11,101,Physics,11,Uni B,2012,Assistant Professor,True,Physics,STEM,Physics,Optics
`

func TestMount_RunThenRead(t *testing.T) {
	module.Reset()
	t.Cleanup(module.Reset)

	dir := t.TempDir()
	raw := filepath.Join(dir, "raw.csv")
	if err := os.WriteFile(raw, []byte(rawCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")
	t.Setenv("CORE_API_DATA_DIR", out)
	t.Setenv("CORE_NORMALIZE_RAW_PATH", raw)
	t.Setenv("CORE_NORMALIZE_OUT_DIR", out)

	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), Options{Config: config.New()})

	// nothing written yet
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/relations", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("before run: status %d body %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("run: status %d body %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("request id header missing")
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/relations/persons?limit=1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("after run: status %d body %s", rr.Code, rr.Body.String())
	}
	var env struct {
		Data struct {
			Items []map[string]any `json:"items"`
			Page  phttp.Page       `json:"page"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Data.Page.Total != 2 || len(env.Data.Items) != 1 || env.Data.Page.Cursor != "1" {
		t.Fatalf("unexpected page %+v", env.Data)
	}

	if _, ok := module.PortsAs[normmod.Ports]("normalizer"); !ok {
		t.Fatal("normalizer ports not registered")
	}
}

func TestMount_MetaAndHistoryWithoutStores(t *testing.T) {
	module.Reset()
	t.Cleanup(module.Reset)
	t.Setenv("CORE_API_DATA_DIR", t.TempDir())

	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), Options{Config: config.New()})

	cases := []struct {
		path string
		want int
	}{
		{"/api/v1/meta/health", http.StatusOK},
		{"/api/v1/meta/ready", http.StatusOK},
		{"/api/v1/runs", http.StatusServiceUnavailable},
	}
	for _, c := range cases {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, c.path, nil))
		if rr.Code != c.want {
			t.Fatalf("%s: status %d body %s", c.path, rr.Code, rr.Body.String())
		}
	}
}

