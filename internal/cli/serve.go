package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"keybus/internal/config"
	"keybus/internal/httpapi"
	"keybus/internal/hub"
)

const shutdownTimeout = 5 * time.Second

// runServe runs the HTTP server until ctx is canceled or SIGINT/SIGTERM
// arrives. onListen, when set, receives the bound address.
func runServe(ctx context.Context, opts *Options, logOut io.Writer, onListen func(net.Addr)) error {
	log := newLogger(opts.LogLevel, opts.LogFormat, logOut)
	roots, err := opts.allowedRoots()
	if err != nil {
		return fmt.Errorf("roots: %w", err)
	}

	h := hub.NewWithConfig(hub.Config{
		MaxSubscribers: opts.MaxSubscribers,
		ClientBuffer:   opts.ClientBuffer,
		MaxDepth:       opts.MaxDepth,
		Roots:          roots,
		Logger:         &log,
	})
	httpapi.SetLogger(log)
	httpapi.SetKeepAlive(opts.KeepAlive)
	httpapi.SetMaxBodyBytes(opts.MaxBodyBytes)
	httpapi.SetRequestLogLevel(opts.LogRequests)
	httpapi.SetCORSOptions(len(opts.CORSOrigins) > 0, opts.CORSOrigins,
		[]string{http.MethodGet, http.MethodPost, http.MethodOptions},
		[]string{"Content-Type", "Last-Event-ID", "X-Log-Level"})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Streams end on shutdown through the base context, before Shutdown waits.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)
	defer httpapi.SetBaseContext(nil)

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", opts.Addr, err)
	}
	srv := &http.Server{Handler: httpapi.NewMux(h), ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", ln.Addr().String()).Strs("roots", roots).Msg("keybusd listening")
		if onListen != nil {
			onListen(ln.Addr())
		}
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	if opts.ConfigPath != "" {
		g.Go(func() error {
			return config.Watch(gctx, opts.ConfigPath,
				func(c config.Config) { reloadRoots(h, opts, c, log) },
				func(err error) { log.Warn().Err(err).Str("config", opts.ConfigPath).Msg("config reload failed") })
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		h.Drain()
		cancelBase()
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// reloadRoots applies the root registry from a reloaded config file. Roots
// given on the command line are pinned and never reloaded.
func reloadRoots(h *hub.Hub, opts *Options, c config.Config, log zerolog.Logger) {
	if opts.rootsPinned {
		log.Debug().Msg("config reload: roots pinned by flags")
		return
	}
	roots, err := c.AllowedRoots()
	if err != nil {
		log.Warn().Err(err).Msg("config reload: roots")
		return
	}
	h.SetRoots(roots)
}
