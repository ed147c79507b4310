package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	natsadapter "ghgdeck/internal/adapters/nats"
	"ghgdeck/internal/adapters/source"
	"ghgdeck/internal/adapters/valkey"
	"ghgdeck/internal/core/domain"
	"ghgdeck/internal/pkg/config"
	"ghgdeck/internal/pkg/logging"
)

// Prefetch warms the document cache ahead of API start or after a data
// rebuild: it fetches the manifest and every feature collection it
// names, writes them to Valkey under the keys the API reads through,
// and announces the refresh on NATS.
func main() {
	cfg, err := config.Load("ghgdeck-prefetch")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("ghgdeck-prefetch", logLevel, "text")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		log.Fatalf("valkey: %v", err)
	}
	defer cache.Close()

	src := source.New(cfg.Manifest.URL, time.Duration(cfg.Manifest.FetchTimeout)*time.Second)
	ttl := cfg.Manifest.CacheTTLSeconds
	if ttl <= 0 {
		ttl = 300
	}

	manifest, err := src.Manifest(ctx, cfg.Manifest.URL)
	if err != nil {
		log.Fatalf("fetch manifest: %v", err)
	}
	if err := manifest.Validate(); err != nil {
		log.Fatalf("manifest: %v", err)
	}

	if raw, err := json.Marshal(manifest); err == nil {
		if err := cache.Set(ctx, "manifest:"+cfg.Manifest.URL, raw, ttl); err != nil {
			slog.Warn("cache manifest failed", "error", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, key := range domain.RequiredFiles {
		key := key
		g.Go(func() error {
			path := manifest.Files[key]
			fc, err := src.FeatureCollection(gctx, path)
			if err != nil {
				return err
			}
			raw, err := fc.MarshalJSON()
			if err != nil {
				return err
			}
			if err := cache.Set(gctx, "collection:"+path, raw, ttl); err != nil {
				return err
			}
			slog.Info("cached collection", "key", key, "features", len(fc.Features), "bytes", len(raw))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("prefetch: %v", err)
	}

	// Announce so open dashboards re-fetch
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, skipping reload event", "error", err)
	} else {
		defer pub.Close()
		ev := &domain.ReloadEvent{
			ManifestPath: cfg.Manifest.URL,
			LoadedAt:     time.Now().UTC(),
		}
		if err := pub.PublishReload(ctx, ev); err != nil {
			slog.Warn("publish reload event failed", "error", err)
		}
	}

	slog.Info("prefetch complete", "collections", len(domain.RequiredFiles))
}
