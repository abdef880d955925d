package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/KaramelBytes/solarsite-cli/internal/analysis"
	"github.com/KaramelBytes/solarsite-cli/internal/dataset"
	"github.com/KaramelBytes/solarsite-cli/internal/export"
)

const (
	// defaultMaxUpload caps the whole request body.
	defaultMaxUpload = 64 << 20
	// maxMemory bounds the multipart parts held in memory; the rest spills to disk.
	maxMemory = 16 << 20
)

// API serves the aggregation endpoints. Each request is stateless: uploads
// are ingested through the shared Ingestor, whose cache dedupes repeats.
type API struct {
	ingestor  *dataset.Ingestor
	logger    *slog.Logger
	maxUpload int64
}

// NewAPI builds an API backed by ing.
func NewAPI(ing *dataset.Ingestor, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{ingestor: ing, logger: logger, maxUpload: defaultMaxUpload}
}

// Routes registers every endpoint on a fresh mux.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", a.handleHealthz)
	mux.HandleFunc("POST /api/v1/summary", a.handleSummary)
	mux.HandleFunc("POST /api/v1/ranking", a.handleRanking)
	mux.HandleFunc("POST /api/v1/distribution", a.handleDistribution)
	mux.HandleFunc("POST /api/v1/report", a.handleReport)
	return mux
}

type envelope struct {
	SnapshotID  string               `json:"snapshot_id"`
	Outcome     dataset.Outcome      `json:"outcome"`
	Records     int                  `json:"records"`
	Countries   []string             `json:"countries"`
	Missing     []string             `json:"missing,omitempty"`
	Diagnostics []dataset.Diagnostic `json:"diagnostics"`
}

type summaryRow struct {
	Country string              `json:"country"`
	Count   int                 `json:"count"`
	Values  map[string]*float64 `json:"values"`
}

type rankEntry struct {
	Rank    int      `json:"rank"`
	Country string   `json:"country"`
	MeanGHI *float64 `json:"mean_ghi"`
}

type boxStats struct {
	Country      string   `json:"country"`
	Count        int      `json:"count"`
	Min          *float64 `json:"min"`
	Q1           *float64 `json:"q1"`
	Median       *float64 `json:"median"`
	Q3           *float64 `json:"q3"`
	Max          *float64 `json:"max"`
	LowerWhisker *float64 `json:"lower_whisker"`
	UpperWhisker *float64 `json:"upper_whisker"`
	Outliers     int      `json:"outliers"`
}

type summaryResponse struct {
	envelope
	Columns []string     `json:"columns"`
	Rows    []summaryRow `json:"rows"`
}

type rankingResponse struct {
	envelope
	NoData  bool        `json:"no_data"`
	Ranking []rankEntry `json:"ranking"`
	Best    *string     `json:"best"`
}

type distributionResponse struct {
	envelope
	Metric   dataset.Metric `json:"metric"`
	NoData   bool           `json:"no_data"`
	Filtered int            `json:"filtered_records"`
	Boxes    []boxStats     `json:"boxes"`
}

type reportResponse struct {
	envelope
	Markdown string `json:"markdown"`
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleSummary(w http.ResponseWriter, r *http.Request) {
	res, ok := a.ingest(w, r)
	if !ok {
		return
	}
	tbl := selectCountries(r, res.Table)
	s := analysis.Summarize(tbl)
	rows := make([]summaryRow, 0, len(s.Rows))
	for _, row := range s.Rows {
		vals := make(map[string]*float64, len(row.Values))
		for k, v := range row.Values {
			vals[k] = export.Nullable(v)
		}
		rows = append(rows, summaryRow{Country: row.Label, Count: row.Count, Values: vals})
	}
	writeJSON(w, http.StatusOK, summaryResponse{envelope: newEnvelope(res), Columns: s.Columns, Rows: rows})
}

func (a *API) handleRanking(w http.ResponseWriter, r *http.Request) {
	res, ok := a.ingest(w, r)
	if !ok {
		return
	}
	rk := analysis.Rank(selectCountries(r, res.Table))
	entries := make([]rankEntry, 0, len(rk.Entries))
	for i, e := range rk.Entries {
		entries = append(entries, rankEntry{Rank: i + 1, Country: e.Country, MeanGHI: export.Nullable(e.MeanGHI)})
	}
	resp := rankingResponse{envelope: newEnvelope(res), NoData: rk.NoData, Ranking: entries}
	if b, ok := rk.Best(); ok {
		resp.Best = &b.Country
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleDistribution(w http.ResponseWriter, r *http.Request) {
	metric, err := metricParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, ok := a.ingest(w, r)
	if !ok {
		return
	}
	d, err := analysis.FilterForDistribution(selectCountries(r, res.Table), metric)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	boxes := make([]boxStats, 0, len(d.Boxes))
	for _, b := range d.Boxes {
		boxes = append(boxes, boxStats{
			Country:      b.Label,
			Count:        b.Count,
			Min:          export.Nullable(b.Min),
			Q1:           export.Nullable(b.Q1),
			Median:       export.Nullable(b.Median),
			Q3:           export.Nullable(b.Q3),
			Max:          export.Nullable(b.Max),
			LowerWhisker: export.Nullable(b.LowerWhisker),
			UpperWhisker: export.Nullable(b.UpperWhisker),
			Outliers:     b.Outliers,
		})
	}
	writeJSON(w, http.StatusOK, distributionResponse{
		envelope: newEnvelope(res),
		Metric:   d.Metric,
		NoData:   d.NoData,
		Filtered: d.Table.Len(),
		Boxes:    boxes,
	})
}

func (a *API) handleReport(w http.ResponseWriter, r *http.Request) {
	metric, err := metricParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, ok := a.ingest(w, r)
	if !ok {
		return
	}
	rep, err := analysis.BuildReport(res, metric)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{envelope: newEnvelope(res), Markdown: rep.Markdown()})
}

// ingest reads the multipart "files" field and runs ingestion. On failure it
// has already written the error response.
func (a *API) ingest(w http.ResponseWriter, r *http.Request) (*dataset.Result, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload)
	sources, err := readSources(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		// multipart does not always wrap the reader error
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", a.maxUpload))
			return nil, false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	res, err := a.ingestor.Ingest(r.Context(), sources)
	if err != nil {
		a.logger.Error("ingest failed", "error", err)
		writeError(w, http.StatusInternalServerError, "ingestion aborted")
		return nil, false
	}
	return res, true
}

func readSources(r *http.Request) ([]dataset.Source, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, errors.New("expected multipart/form-data with a 'files' field")
		}
		return nil, fmt.Errorf("invalid multipart body: %w", err)
	}
	var out []dataset.Source
	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		b, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		out = append(out, dataset.Source{Name: fh.Filename, Data: b})
	}
	return out, nil
}

func metricParam(r *http.Request) (dataset.Metric, error) {
	s := r.URL.Query().Get("metric")
	if s == "" {
		return dataset.GHI, nil
	}
	return analysis.ParseMetric(s)
}

// selectCountries applies the optional comma-separated "countries" filter.
func selectCountries(r *http.Request, t *dataset.Table) *dataset.Table {
	q := r.URL.Query()
	if !q.Has("countries") {
		return t
	}
	var labels []string
	for _, c := range strings.Split(q.Get("countries"), ",") {
		if c = strings.TrimSpace(c); c != "" {
			labels = append(labels, c)
		}
	}
	return analysis.FilterLabels(t, labels)
}

func newEnvelope(res *dataset.Result) envelope {
	env := envelope{
		Outcome:     res.Outcome,
		Records:     res.Table.Len(),
		Countries:   res.Table.Labels(),
		Missing:     res.Missing(),
		Diagnostics: res.Diagnostics,
	}
	if env.Countries == nil {
		env.Countries = []string{}
	}
	if env.Diagnostics == nil {
		env.Diagnostics = []dataset.Diagnostic{}
	}
	if res.Table != nil {
		env.SnapshotID = res.Table.ID.String()
	}
	return env
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to write JSON", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error":   http.StatusText(status),
		"message": msg,
	})
}
