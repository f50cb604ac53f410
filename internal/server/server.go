package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/KaramelBytes/biotab-cli/internal/analysis"
	"github.com/KaramelBytes/biotab-cli/internal/dataset"
	"github.com/KaramelBytes/biotab-cli/internal/genbank"
	"github.com/KaramelBytes/biotab-cli/internal/loader"
	"github.com/KaramelBytes/biotab-cli/internal/plot"
	"github.com/sirupsen/logrus"
)

// SequenceFetcher looks up one GenBank record.
type SequenceFetcher interface {
	Fetch(ctx context.Context, accession string) (*genbank.Record, error)
}

// Config wires the viewer to the loader, chart and sequence settings.
type Config struct {
	Loader    loader.Options
	Analysis  analysis.Options
	Plot      plot.Options
	Sequences SequenceFetcher
	Logger    *logrus.Logger
}

// Server is the local HTTP viewer. It holds one current dataset that is
// replaced wholesale when a new file is opened.
type Server struct {
	cfg     Config
	log     *logrus.Logger
	current atomic.Pointer[dataset.Dataset]
}

// New returns a viewer with no dataset loaded.
func New(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{cfg: cfg, log: log}
}

// Current returns the loaded dataset, or nil.
func (s *Server) Current() *dataset.Dataset { return s.current.Load() }

// Set replaces the current dataset.
func (s *Server) Set(ds *dataset.Dataset) { s.current.Store(ds) }

// Open loads path and makes it the current dataset. On failure the previous
// dataset stays in place.
func (s *Server) Open(path string) (*dataset.Dataset, error) {
	ds, err := loader.Load(path, s.cfg.Loader)
	if err != nil {
		return nil, err
	}
	s.Set(ds)
	s.log.WithFields(logrus.Fields{"source": ds.Source, "rows": ds.Rows(), "columns": len(ds.Columns())}).Info("dataset opened")
	return ds, nil
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("viewer listening")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
