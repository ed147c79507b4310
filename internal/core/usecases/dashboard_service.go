package usecases

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/paulmach/orb/geojson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"ghgdeck/internal/core/domain"
	"ghgdeck/internal/core/ports"
	"ghgdeck/internal/pkg/metrics"
)

// fetchConcurrency bounds parallel feature-collection downloads.
const fetchConcurrency = 4

// DashboardConfig fixes one deployment's load-cycle behavior.
type DashboardConfig struct {
	ManifestPath string

	// PrefetchAll loads every collection into the snapshot instead of
	// handing paths to the engine. The ghg collection is always
	// pre-fetched when facility icons are on.
	PrefetchAll bool

	// CacheTTLSeconds for fetched documents; zero disables caching.
	CacheTTLSeconds int

	Compose ComposeOptions
}

// DashboardService owns the load cycle: manifest, dependent feature
// collections, icon table, layer composition, snapshot swap. There is
// no partial-success path: any failure aborts the cycle and leaves the
// previous snapshot (if any) live.
type DashboardService struct {
	source   ports.ManifestSource
	cache    ports.CacheService
	events   ports.EventPublisher
	composer *ComposerService
	viewport *ViewportService
	cfg      DashboardConfig
	tracer   trace.Tracer

	mu      sync.RWMutex
	snap    *domain.Snapshot
	lastErr error
}

// NewDashboardService wires the load cycle. cache and events may be
// nil; both degrade to no-ops.
func NewDashboardService(
	source ports.ManifestSource,
	cache ports.CacheService,
	events ports.EventPublisher,
	composer *ComposerService,
	viewport *ViewportService,
	cfg DashboardConfig,
) *DashboardService {
	return &DashboardService{
		source:   source,
		cache:    cache,
		events:   events,
		composer: composer,
		viewport: viewport,
		cfg:      cfg,
		tracer:   otel.Tracer("ghgdeck/dashboard"),
	}
}

// Snapshot returns the current snapshot, or nil when no load cycle has
// succeeded yet.
func (s *DashboardService) Snapshot() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// LastError returns the failure of the most recent load cycle, nil
// after a success.
func (s *DashboardService) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Reload runs one full load cycle and swaps the snapshot on success.
func (s *DashboardService) Reload(ctx context.Context) (*domain.Snapshot, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "dashboard.reload",
		trace.WithAttributes(attribute.String("manifest.path", s.cfg.ManifestPath)))
	defer span.End()

	snap, err := s.load(ctx)

	s.mu.Lock()
	s.lastErr = err
	if err == nil {
		s.snap = snap
	}
	s.mu.Unlock()

	if err != nil {
		metrics.DashboardLoads.WithLabelValues("error").Inc()
		span.RecordError(err)
		return nil, err
	}

	metrics.DashboardLoads.WithLabelValues("ok").Inc()
	metrics.LoadCycleDuration.Observe(time.Since(start).Seconds())

	if s.events != nil {
		ev := &domain.ReloadEvent{
			ManifestPath: s.cfg.ManifestPath,
			Layers:       len(snap.Layers),
			Facilities:   snap.Facilities,
			LoadedAt:     snap.LoadedAt,
		}
		if err := s.events.PublishReload(ctx, ev); err != nil {
			slog.Warn("reload event publish failed", "error", err)
		}
	}

	slog.Info("dashboard loaded",
		"layers", len(snap.Layers),
		"facilities", snap.Facilities,
		"took", time.Since(start).String())
	return snap, nil
}

func (s *DashboardService) load(ctx context.Context) (*domain.Snapshot, error) {
	manifest, err := s.loadManifest(ctx)
	if err != nil {
		return nil, err
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	data, err := s.loadCollections(ctx, manifest)
	if err != nil {
		return nil, err
	}

	resolver := NewIconResolver(manifest.Icons)

	_, composeSpan := s.tracer.Start(ctx, "dashboard.compose")
	layers, err := s.composer.Compose(manifest, data, resolver, s.cfg.Compose)
	composeSpan.End()
	if err != nil {
		return nil, err
	}

	facilities := 0
	if fc := data[domain.FileGHG]; fc != nil {
		facilities = len(fc.Features)
	}

	return &domain.Snapshot{
		Manifest:         manifest,
		Layers:           layers,
		InitialViewState: s.viewport.InitialView(manifest),
		Facilities:       facilities,
		LoadedAt:         time.Now().UTC(),
	}, nil
}

// prefetchKeys returns which collections this cycle loads in-process.
// The ghg collection is required whenever icon styling or tooltips
// need in-memory access to properties.
func (s *DashboardService) prefetchKeys() []string {
	if s.cfg.PrefetchAll {
		return domain.RequiredFiles
	}
	return []string{domain.FileGHG}
}

// loadCollections fetches the needed collections concurrently.
// All-or-nothing: the first failure cancels the rest.
func (s *DashboardService) loadCollections(ctx context.Context, m *domain.Manifest) (map[string]*geojson.FeatureCollection, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.fetch_collections")
	defer span.End()

	var mu sync.Mutex
	data := make(map[string]*geojson.FeatureCollection)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for _, key := range s.prefetchKeys() {
		key := key
		g.Go(func() error {
			fc, err := s.loadCollection(ctx, m.Files[key])
			if err != nil {
				return err
			}
			mu.Lock()
			data[key] = fc
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *DashboardService) loadManifest(ctx context.Context) (*domain.Manifest, error) {
	cacheKey := "manifest:" + s.cfg.ManifestPath
	if raw, ok := s.cacheGet(ctx, cacheKey); ok {
		var m domain.Manifest
		if err := json.Unmarshal(raw, &m); err == nil {
			return &m, nil
		}
	}

	m, err := s.source.Manifest(ctx, s.cfg.ManifestPath)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(m); err == nil {
		s.cacheSet(ctx, cacheKey, raw)
	}
	return m, nil
}

func (s *DashboardService) loadCollection(ctx context.Context, path string) (*geojson.FeatureCollection, error) {
	cacheKey := "collection:" + path
	if raw, ok := s.cacheGet(ctx, cacheKey); ok {
		if fc, err := geojson.UnmarshalFeatureCollection(raw); err == nil {
			return fc, nil
		}
	}

	fc, err := s.source.FeatureCollection(ctx, path)
	if err != nil {
		return nil, err
	}

	if raw, err := fc.MarshalJSON(); err == nil {
		s.cacheSet(ctx, cacheKey, raw)
	}
	return fc, nil
}

func (s *DashboardService) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil || s.cfg.CacheTTLSeconds <= 0 {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil || len(raw) == 0 {
		metrics.CacheMisses.WithLabelValues("document").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("document").Inc()
	return raw, true
}

func (s *DashboardService) cacheSet(ctx context.Context, key string, raw []byte) {
	if s.cache == nil || s.cfg.CacheTTLSeconds <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cfg.CacheTTLSeconds); err != nil {
		slog.Debug("cache set failed", "key", key, "error", err)
	}
}
