package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/smartreg/core/logger"
)

// Source produces a fresh catalog on every scan.
type Source interface {
	Scan(ctx context.Context) (*Catalog, error)
}

// New builds the source described by cfg.
func New(cfg Config, log logger.Logger) (Source, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Source {
	case KindHTTP:
		return NewHTTPSource(cfg.URL, time.Duration(cfg.TimeoutSeconds)*time.Second, log), nil
	default:
		return &FileSource{Path: cfg.Path, log: logger.OrNop(log)}, nil
	}
}

// FileSource reads records from a JSON or YAML file chosen by extension.
type FileSource struct {
	Path string
	log  logger.Logger
}

// Scan reads and decodes the file.
func (s *FileSource) Scan(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var records []Record
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	default:
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", s.Path, err)
	}
	return build(records, logger.OrNop(s.log)), nil
}

// HTTPSource fetches records as a JSON array with a GET request.
type HTTPSource struct {
	URL    string
	client *http.Client
	log    logger.Logger
}

// NewHTTPSource creates an HTTP source with the given request timeout.
func NewHTTPSource(url string, timeout time.Duration, log logger.Logger) *HTTPSource {
	return &HTTPSource{URL: url, client: &http.Client{Timeout: timeout}, log: logger.OrNop(log)}
}

// Scan performs one request. Failures are returned as is; there is no retry.
func (s *HTTPSource) Scan(ctx context.Context) (*Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch catalog: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return build(records, s.log), nil
}

func build(records []Record, log logger.Logger) *Catalog {
	c := Decode(records)
	c.ScannedAt = time.Now()
	for _, d := range c.Defects {
		log.Warnf("catalog record %d (%s/%s) skipped: %s", d.Index, d.CourseCode, d.SectionID, d.Reason)
	}
	log.Infof("scanned %d sections (%d skipped)", len(c.Sections), len(c.Defects))
	return c
}

// Static serves a fixed record list.
type Static []Record

// Scan decodes the records.
func (s Static) Scan(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return build(s, logger.NopLogger{}), nil
}
