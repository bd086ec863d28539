package handlers

import (
	_ "embed"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ETAnderson/merchantfeed/internal/domain"
	"github.com/ETAnderson/merchantfeed/internal/feed"
	"github.com/ETAnderson/merchantfeed/internal/ingest"
	"github.com/ETAnderson/merchantfeed/internal/logging"
	"github.com/ETAnderson/merchantfeed/internal/metrics"
	"github.com/ETAnderson/merchantfeed/internal/rowsource"
	"github.com/ETAnderson/merchantfeed/internal/rss"
)

const DefaultUploadMaxBytes = 20 << 20

//go:embed static/index.html
var uploadForm []byte

func ConvertForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(uploadForm)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(uploadForm)
}

// ConvertHandler turns an uploaded CSV export into a feed in memory and
// returns the document. Nothing is written to disk.
type ConvertHandler struct {
	Config   feed.Config
	MaxBytes int64
	Metrics  metrics.Recorder
}

func (h ConvertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	log := logging.FromContext(r.Context())

	limit := h.MaxBytes
	if limit <= 0 {
		limit = DefaultUploadMaxBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file_too_large",
				"upload exceeds "+strconv.FormatInt(limit, 10)+" bytes")
			return
		}
		writeError(w, http.StatusBadRequest, "missing_file", "request must be multipart/form-data with a 'file' field")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_file", "no file in request (field 'file')")
		return
	}
	defer file.Close()

	name := strings.TrimSpace(header.Filename)
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing_file", "no file selected")
		return
	}
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		writeError(w, http.StatusBadRequest, "unsupported_file", "only .csv files are accepted")
		return
	}

	rows, err := rowsource.ReadCSV(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_csv", err.Error())
		return
	}

	gen := ingest.Generator{
		Source:  rowsource.Static{Kind: domain.GenerationSourceCSV, Records: rows},
		Config:  h.Config,
		Metrics: h.Metrics,
		Logger:  log,
	}
	res, err := gen.Generate(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "conversion_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", rss.ContentType)
	w.Header().Set("X-Generation-Id", res.GenerationID)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.XML)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.XML)
}
