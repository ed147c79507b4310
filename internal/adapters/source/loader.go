// Package source fetches the manifest and its feature collections over
// HTTP. Failures are typed: transport/status problems wrap
// domain.ErrLoad, malformed bodies wrap domain.ErrParse. No retries; a
// failure is terminal for the current load cycle.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"

	"ghgdeck/internal/core/domain"
	"ghgdeck/internal/pkg/metrics"
)

// maxBodyBytes caps a single document fetch. The largest cleaned
// collection (pipelines) sits well under this.
const maxBodyBytes = 64 << 20

// HTTPSource loads dashboard documents from a base URL.
type HTTPSource struct {
	base   string
	client *http.Client
}

// New creates an HTTP source. Relative manifest paths resolve against
// base; absolute URLs pass through unchanged.
func New(base string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		base:   strings.TrimSuffix(base, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// Manifest fetches and decodes the root manifest document.
func (s *HTTPSource) Manifest(ctx context.Context, path string) (*domain.Manifest, error) {
	body, err := s.fetch(ctx, path)
	if err != nil {
		metrics.FetchErrors.WithLabelValues("manifest").Inc()
		return nil, err
	}

	var m domain.Manifest
	if err := json.Unmarshal(body, &m); err != nil {
		metrics.FetchErrors.WithLabelValues("manifest").Inc()
		return nil, domain.ParseErrorf("manifest %s: %v", path, err)
	}
	return &m, nil
}

// FeatureCollection fetches and decodes one GeoJSON collection.
func (s *HTTPSource) FeatureCollection(ctx context.Context, path string) (*geojson.FeatureCollection, error) {
	body, err := s.fetch(ctx, path)
	if err != nil {
		metrics.FetchErrors.WithLabelValues("collection").Inc()
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		metrics.FetchErrors.WithLabelValues("collection").Inc()
		return nil, domain.ParseErrorf("collection %s: %v", path, err)
	}
	return fc, nil
}

func (s *HTTPSource) fetch(ctx context.Context, path string) ([]byte, error) {
	url := s.resolve(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.LoadErrorf("build request for %s: %v", url, err)
	}
	req.Header.Set("Accept", "application/json, application/geo+json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, domain.LoadErrorf("fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.LoadErrorf("fetch %s: HTTP %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.LoadErrorf("read %s: %v", url, err)
	}
	return body, nil
}

func (s *HTTPSource) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return fmt.Sprintf("%s/%s", s.base, strings.TrimPrefix(path, "/"))
}
