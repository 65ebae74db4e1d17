package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-manager/core/loader"
	"media-manager/core/logger"
	"media-manager/core/metrics"
	"media-manager/core/middleware/auth"
	"media-manager/core/middleware/rayid"
	"media-manager/core/notify"
	"media-manager/core/storage"
	"media-manager/feature/gallery"
	"media-manager/feature/indexer"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "media-manager/docs/swagger"
)

// @title Media Manager API
// @version 1.0
// @description API for browsing live, ordered media views and maintaining the media index.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the media manager server",
	Long: `Starts the HTTP server, the media engine and the configured change sources.

Files changing in the watch directory or bucket trigger an index scan; the
scan publishes index changes, which open views pick up after the debounce window.`,
	RunE: runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, logg, err := loadRuntime()
	if err != nil {
		return err
	}
	defer logg.Sync()

	eng, err := newEngine(cfg, logg)
	if err != nil {
		return err
	}
	defer eng.close()
	logg.Info("Media engine started",
		zap.String("driver", cfg.Database.Driver),
		zap.Duration("debounce", cfg.Media.Debounce))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store storage.Client
	if cfg.Media.WatchBucket {
		if store, err = storage.NewClient(cfg.Storage); err != nil {
			return err
		}
	}

	idx := indexer.NewService(eng.db, cfg.Database.Table, store, cfg.Storage.Bucket, cfg.Media.WatchDir, eng.hub, logg)
	startWatchers(ctx, cfg.Media.WatchDir, store, cfg.Storage.Bucket, cfg.Media.WatchPrefix, cfg.Media.Debounce, idx, logg)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	mgr := loader.NewManager()
	mgr.Register(gallery.NewFeature(gallery.NewService(eng.loop, logg, cfg.Media.MaxViews, eng.sets...)))
	mgr.Register(indexer.NewFeature(idx))

	// RayID first so every later log line carries it.
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// Public endpoints.
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

	if err := mgr.LoadAll(app); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("port", cfg.Server.Port))
		errCh <- app.Listen(cfg.Server.Address())
	}()

	select {
	case <-ctx.Done():
		logg.Info("Shutting down server...")
		return app.Shutdown()
	case err := <-errCh:
		return err
	}
}

// startWatchers runs the configured change sources. Their raw file events go
// to a private hub that the indexer follows; only index changes reach the sets.
func startWatchers(ctx context.Context, dir string, store storage.Client, bucket, prefix string, settle time.Duration, idx *indexer.Service, logg *zap.Logger) {
	run := func(name string, fn func(context.Context) error) {
		go func() {
			if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error("Watcher stopped", zap.String("watcher", name), zap.Error(err))
			}
		}()
	}

	if dir != "" {
		files := notify.NewHub()
		src, err := notify.NewDirSource(dir, files, logg)
		if err != nil {
			logg.Error("Failed to watch directory", zap.String("dir", dir), zap.Error(err))
		} else {
			run("dir", src.Run)
			run("dir-index", func(ctx context.Context) error {
				return idx.Follow(ctx, files, settle, func(ctx context.Context) (*indexer.ScanReport, error) {
					return idx.ScanDir(ctx)
				})
			})
			run("dir-initial", func(ctx context.Context) error {
				_, err := idx.ScanDir(ctx)
				return err
			})
		}
	}

	if store != nil {
		objects := notify.NewHub()
		run("bucket", notify.NewBucketSource(store, bucket, prefix, objects, logg).Run)
		run("bucket-index", func(ctx context.Context) error {
			return idx.Follow(ctx, objects, settle, func(ctx context.Context) (*indexer.ScanReport, error) {
				return idx.ScanBucket(ctx, prefix)
			})
		})
	}
}
