package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	ui "github.com/atdiar/entityui"
	term "github.com/atdiar/entityui/drivers/terminal"
	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var watch bool
var metricsAddr string

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run shows the board live in the terminal.",
	Long: `
		Run mounts the board in the terminal. Click an item to select it,
		hit Escape or Ctrl-C to quit. With --watch, editing the props file
		updates the board in place.
	`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		props, err := loadProps(propsPath)
		if err != nil {
			return err
		}

		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := screen.Init(); err != nil {
			return err
		}
		defer screen.Fini()
		screen.EnableMouse()

		opts := []ui.Option{ui.WithConfig(cfg), ui.WithLogger(logger)}
		var metricsHandler http.Handler
		if metricsAddr != "" {
			reg := prometheus.NewRegistry()
			m, err := ui.NewMetrics(reg)
			if err != nil {
				return err
			}
			opts = append(opts, ui.WithMetrics(m))
			metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
		}
		loop := ui.NewTickerLoop(cfg.FrameInterval)
		opts = append(opts, ui.WithLoop(loop))

		root := term.NewContainer()
		scene, err := ui.Mount(root, term.Host{}, Board, props, opts...)
		if err != nil {
			return err
		}
		view := term.NewScreen(screen, root, logger)
		view.Attach(scene)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
		defer stop()
		g, ctx := errgroup.WithContext(ctx)
		ctx, cancel := context.WithCancel(ctx)

		g.Go(func() error {
			defer cancel()
			return view.Run(ctx, scene)
		})
		if watch && propsPath != "" {
			g.Go(func() error {
				return watchProps(ctx, propsPath, logger, func(p ui.Props) {
					scene.Do(func() { scene.SetProps(p, nil) })
				})
			})
		}
		if metricsAddr != "" {
			g.Go(func() error {
				return serveMetrics(ctx, metricsAddr, metricsHandler, logger)
			})
		}

		err = g.Wait()
		remove := func() {
			if rerr := scene.Remove(); err == nil {
				err = rerr
			}
		}
		// A paused loop no longer touches the scene.
		if !loop.DoSync(remove) {
			remove()
		}
		if serr := scene.Err(); err == nil {
			err = serr
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the props file when it changes")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
}

// watchProps calls apply with the content of the props file at path each time
// it is written, until ctx is done. The directory is watched so that editors
// replacing the file are supported.
func watchProps(ctx context.Context, path string, logger *zap.Logger, apply func(ui.Props)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("props watcher", zap.Error(err))
		case evt, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != path || !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
				continue
			}
			props, err := loadProps(path)
			if err != nil {
				logger.Warn("cannot reload props", zap.String("path", path), zap.Error(err))
				continue
			}
			logger.Debug("props reloaded", zap.String("path", path))
			apply(props)
		}
	}
}

func serveMetrics(ctx context.Context, addr string, h http.Handler, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()
	logger.Info("serving metrics", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
