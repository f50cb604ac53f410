package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/KaramelBytes/biotab-cli/internal/analysis"
	"github.com/KaramelBytes/biotab-cli/internal/dataset"
	"github.com/KaramelBytes/biotab-cli/internal/genbank"
	"github.com/KaramelBytes/biotab-cli/internal/plot"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// ColumnInfo describes one column in the dataset listing.
type ColumnInfo struct {
	Name    string       `json:"name"`
	Kind    dataset.Kind `json:"kind"`
	Missing int          `json:"missing"`
}

// DatasetInfo is the JSON shape of GET /api/dataset.
type DatasetInfo struct {
	ID      string              `json:"id"`
	Source  string              `json:"source"`
	Format  string              `json:"format"`
	Rows    int                 `json:"rows"`
	Columns []ColumnInfo        `json:"columns"`
	Meta    []dataset.Attribute `json:"meta,omitempty"`
}

func describe(ds *dataset.Dataset) DatasetInfo {
	info := DatasetInfo{ID: ds.ID, Source: ds.Source, Format: ds.Format, Rows: ds.Rows(), Meta: ds.Meta}
	for _, c := range ds.Columns() {
		info.Columns = append(info.Columns, ColumnInfo{Name: c.Name, Kind: c.Kind(), Missing: c.MissingCount()})
	}
	return info
}

type openRequest struct {
	Path string `json:"path"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		logrus.WithError(err).Error("encode response")
		status = http.StatusInternalServerError
		b = []byte(`{"error":"could not encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writePNG(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// snapshot returns the current dataset or writes a 409.
func (s *Server) snapshot(w http.ResponseWriter) (*dataset.Dataset, bool) {
	ds := s.Current()
	if ds == nil {
		writeError(w, http.StatusConflict, "no dataset loaded; POST /api/open first")
		return nil, false
	}
	return ds, true
}

// column resolves a column named in the route or query, writing 400/404 on failure.
func (s *Server) column(w http.ResponseWriter, ds *dataset.Dataset, escaped string) (*dataset.Column, bool) {
	name, err := url.PathUnescape(escaped)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed column name")
		return nil, false
	}
	col, err := ds.Column(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return col, true
}

func (s *Server) DatasetInfo(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, describe(ds))
}

func (s *Server) OpenFile(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil || req.Path == "" {
		writeError(w, http.StatusBadRequest, `expected JSON body {"path": "..."}`)
		return
	}
	ds, err := s.Open(req.Path)
	if err != nil {
		s.log.WithError(err).Warn("open failed")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, describe(ds))
}

func (s *Server) ColumnSummary(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.snapshot(w)
	if !ok {
		return
	}
	col, ok := s.column(w, ds, mux.Vars(r)["name"])
	if !ok {
		return
	}
	sum, err := analysis.Summarize(col, s.cfg.Analysis)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) plotOptions(r *http.Request) plot.Options {
	opt := s.cfg.Plot
	q := r.URL.Query()
	if n, err := strconv.Atoi(q.Get("bins")); err == nil && n > 0 && n <= 500 {
		opt.Bins = n
	}
	if n, err := strconv.Atoi(q.Get("width")); err == nil && n >= 100 && n <= 4096 {
		opt.Width = n
	}
	if n, err := strconv.Atoi(q.Get("height")); err == nil && n >= 100 && n <= 4096 {
		opt.Height = n
	}
	return opt
}

func (s *Server) ColumnPlot(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.snapshot(w)
	if !ok {
		return
	}
	col, ok := s.column(w, ds, mux.Vars(r)["name"])
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := plot.ColumnPNG(&buf, col, s.plotOptions(r)); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writePNG(w, &buf)
}

func (s *Server) ColumnLine(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.snapshot(w)
	if !ok {
		return
	}
	col, ok := s.column(w, ds, mux.Vars(r)["name"])
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := plot.LinePNG(&buf, col, s.plotOptions(r)); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writePNG(w, &buf)
}

func (s *Server) Compare(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.snapshot(w)
	if !ok {
		return
	}
	q := r.URL.Query()
	if q.Get("a") == "" || q.Get("b") == "" {
		writeError(w, http.StatusBadRequest, "query parameters a and b are required")
		return
	}
	a, ok := s.column(w, ds, url.PathEscape(q.Get("a")))
	if !ok {
		return
	}
	b, ok := s.column(w, ds, url.PathEscape(q.Get("b")))
	if !ok {
		return
	}
	cmp, err := analysis.Compare(a, b)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if q.Get("format") == "png" {
		if cmp.Mode != analysis.ModeNumericNumeric {
			writeError(w, http.StatusUnprocessableEntity, "scatter plots need two numeric columns")
			return
		}
		var buf bytes.Buffer
		if err := plot.ScatterPNG(&buf, cmp.A, cmp.B, cmp.X, cmp.Y, s.plotOptions(r)); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writePNG(w, &buf)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (s *Server) Sequence(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Sequences == nil {
		writeError(w, http.StatusServiceUnavailable, "sequence lookup is not configured")
		return
	}
	acc := mux.Vars(r)["accession"]
	rec, err := s.cfg.Sequences.Fetch(r.Context(), acc)
	if err != nil {
		var nf *genbank.NotFoundError
		var ue *genbank.UnreachableError
		var apiErr *genbank.APIError
		switch {
		case errors.Is(err, genbank.ErrInvalidAccession):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &nf):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.As(err, &ue), errors.As(err, &apiErr):
			writeError(w, http.StatusBadGateway, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
