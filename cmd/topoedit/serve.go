package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math/rand/v2"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"topoedit/internal/config"
	"topoedit/internal/domain"
	"topoedit/internal/handler"
	"topoedit/internal/hub"
	"topoedit/internal/loader"
	"topoedit/internal/metrics"
	"topoedit/internal/scene"
	"topoedit/internal/service"
	"topoedit/internal/topology"
	"topoedit/internal/watcher"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web canvas and editor API",
		Long: `Start the HTTP server. The browser canvas is served at /, the editor
API under /api, scene and editor events at /events and Prometheus metrics
at /metrics.

  topoedit serve
  topoedit serve --addr :8080
  topoedit serve -c ./topoedit.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if path != "" {
				log.Printf("Loaded config from %s", path)
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	return cmd
}

func serve(parent context.Context, cfg *config.Config) error {
	log.Println("Starting topoedit server...")

	seeds, err := loader.LoadSeeds(cfg.Seeds.Path)
	if err != nil {
		return fmt.Errorf("load seeds: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	eventBus := service.NewEventBus()

	// The editor draws on a streaming surface; its frames reach browsers
	// through the event bus and the SSE hub.
	stream := scene.NewStream(service.NewScenePublisher(eventBus, reg))
	opts := cfg.TopologyOptions()
	opts.Seeds = seeds
	editor := topology.New(stream, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), opts)

	sseHub := hub.New().
		WithKeepAlive(cfg.Server.KeepAlive.Duration()).
		OnClientCount(reg.SetSSEClients)
	go sseHub.Run(ctx)

	eventChan := make(chan service.Event, 256)
	eventBus.Subscribe(eventChan)
	go func() {
		for {
			select {
			case <-ctx.Done():
				eventBus.Unsubscribe(eventChan)
				return
			case event := <-eventChan:
				sseHub.Broadcast(event)
			}
		}
	}()

	canvas := service.NewCanvasService(editor, eventBus, service.CanvasOptions{
		Interval: cfg.FrameInterval(),
		Metrics:  reg,
		Scene:    stream,
	})
	canvasDone := make(chan struct{})
	go func() {
		defer close(canvasDone)
		canvas.Run(ctx)
	}()

	if cfg.Seeds.Watch && cfg.Seeds.Path != "" {
		go func() {
			err := watcher.WatchSeeds(ctx, cfg.Seeds.Path, cfg.Seeds.Debounce.Duration(), func(seeds []domain.NodeSpec) {
				if err := canvas.SetSeeds(ctx, seeds); err != nil {
					log.Printf("Failed to apply seeds: %v", err)
				}
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Seed watcher stopped: %v", err)
			}
		}()
		log.Printf("Watching seed file %s", cfg.Seeds.Path)
	}

	mux := http.NewServeMux()
	handler.NewCanvasHandler(canvas).Register(mux)
	mux.Handle("GET /events", sseHub)
	mux.Handle("GET /metrics", reg.Handler())

	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		return fmt.Errorf("embedded web content: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(webContent)))

	middlewares := []handler.Middleware{handler.Recover}
	if cfg.Server.CORS {
		middlewares = append(middlewares, handler.CORS)
	}
	middlewares = append(middlewares, handler.Logger, handler.Metrics(reg))

	server := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     handler.Chain(mux, middlewares...),
		ReadTimeout: 10 * time.Second,
		// no write timeout: /events responses stay open
		IdleTimeout: 60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			stop()
			<-canvasDone
			return fmt.Errorf("server: %w", err)
		}
	}

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	<-canvasDone

	log.Println("Server stopped")
	return nil
}
