package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KaramelBytes/solarsite-cli/internal/dataset"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWith(t, func(*API) {})
}

func newTestServerWith(t *testing.T, configure func(*API)) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ing := dataset.NewIngestor(dataset.DefaultOptions(), 4, logger)
	api := NewAPI(ing, logger)
	configure(api)
	srv := NewServer(":0", api)
	ts := httptest.NewServer(srv.Handler)

	t.Cleanup(ts.Close)
	return ts
}

// scenarioFiles is benin GHI=[100,200,0] and togo GHI=[300,400].
func scenarioFiles() map[string]string {
	return map[string]string{
		"benin_clean.csv": "Timestamp,GHI,DNI,DHI\n2021-08-09 10:00,100,50,20\n2021-08-09 10:01,200,100,40\n2021-08-09 10:02,0,0,0\n",
		"togo_clean.csv":  "Timestamp,GHI,DNI,DHI\n2021-08-09 10:00,300,150,60\n2021-08-09 10:01,400,200,80\n",
	}
}

func mustPostFiles(t *testing.T, client *http.Client, url string, files map[string]string, out any) *http.Response {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	// fixed order keeps snapshots comparable
	for _, name := range []string{"benin_clean.csv", "sierra_leone.csv", "togo_clean.csv", "notes.csv"} {
		content, ok := files[name]
		if !ok {
			continue
		}
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := io.WriteString(fw, content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	resp, err := client.Post(url, mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode json: %v", err)
		}
	}
	return resp
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("status=%d body=%v", resp.StatusCode, body)
	}
}

func TestSummaryPartialCoverage(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		SnapshotID  string               `json:"snapshot_id"`
		Outcome     string               `json:"outcome"`
		Records     int                  `json:"records"`
		Missing     []string             `json:"missing"`
		Diagnostics []dataset.Diagnostic `json:"diagnostics"`
		Rows        []summaryRow         `json:"rows"`
	}
	resp := mustPostFiles(t, ts.Client(), ts.URL+"/api/v1/summary", scenarioFiles(), &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if body.Outcome != "partial_coverage" || body.Records != 5 || body.SnapshotID == "" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if len(body.Missing) != 1 || body.Missing[0] != "Sierra Leone" {
		t.Fatalf("missing=%v", body.Missing)
	}
	if len(body.Rows) != 2 || body.Rows[0].Country != "Benin" {
		t.Fatalf("rows=%+v", body.Rows)
	}
	if v := body.Rows[0].Values["GHI Mean (W/m²)"]; v == nil || *v != 100 {
		t.Fatalf("benin GHI mean=%v", v)
	}
	if v := body.Rows[1].Values["GHI Mean (W/m²)"]; v == nil || *v != 350 {
		t.Fatalf("togo GHI mean=%v", v)
	}
}

func TestRankingWithCountryFilter(t *testing.T) {
	ts := newTestServer(t)

	var body rankingResponse
	mustPostFiles(t, ts.Client(), ts.URL+"/api/v1/ranking", scenarioFiles(), &body)
	if len(body.Ranking) != 2 || body.Ranking[0].Country != "Togo" || body.Best == nil || *body.Best != "Togo" {
		t.Fatalf("ranking=%+v best=%v", body.Ranking, body.Best)
	}

	var filtered rankingResponse
	mustPostFiles(t, ts.Client(), ts.URL+"/api/v1/ranking?countries=Benin", scenarioFiles(), &filtered)
	if len(filtered.Ranking) != 1 || filtered.Ranking[0].Country != "Benin" {
		t.Fatalf("filtered=%+v", filtered.Ranking)
	}
}

func TestDistribution(t *testing.T) {
	ts := newTestServer(t)

	var body distributionResponse
	resp := mustPostFiles(t, ts.Client(), ts.URL+"/api/v1/distribution?metric=ghi", scenarioFiles(), &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if body.Metric != dataset.GHI || body.Filtered != 4 || len(body.Boxes) != 2 {
		t.Fatalf("body=%+v", body)
	}
}

func TestDistributionUnknownMetric(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]string
	resp := mustPostFiles(t, ts.Client(), ts.URL+"/api/v1/distribution?metric=Tamb", scenarioFiles(), &body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d want 400", resp.StatusCode)
	}
	if body["error"] != "Bad Request" || !strings.Contains(body["message"], "unknown metric") {
		t.Fatalf("body=%v", body)
	}
}

func TestNoFilesIsNoData(t *testing.T) {
	ts := newTestServer(t)

	var body rankingResponse
	resp := mustPostFiles(t, ts.Client(), ts.URL+"/api/v1/ranking", nil, &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if !body.NoData || body.Outcome != dataset.OutcomeNoData {
		t.Fatalf("body=%+v", body)
	}
}

func TestReportAndNonMultipart(t *testing.T) {
	ts := newTestServer(t)

	var body reportResponse
	mustPostFiles(t, ts.Client(), ts.URL+"/api/v1/report", scenarioFiles(), &body)
	if !strings.Contains(body.Markdown, "Best site: Togo") {
		t.Fatalf("markdown=%s", body.Markdown)
	}

	resp, err := ts.Client().Post(ts.URL+"/api/v1/summary", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d want 400", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/v1/summary")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d want 405", resp.StatusCode)
	}
}

func TestUploadTooLarge(t *testing.T) {
	ts := newTestServerWith(t, func(a *API) { a.maxUpload = 256 })

	files := scenarioFiles()
	files["togo_clean.csv"] += strings.Repeat("2021-08-09 11:00,500,250,100\n", 64)
	var body map[string]string
	resp := mustPostFiles(t, ts.Client(), ts.URL+"/api/v1/summary", files, &body)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("status=%d want 413", resp.StatusCode)
	}
	if !strings.Contains(body["message"], "exceeds 256 bytes") {
		t.Fatalf("body=%v", body)
	}
}
