package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacobsa/fuse"
	"github.com/jacobsa/fuse/fuseutil"

	"github.com/Delta-in-hub/FuseLLM/cfg"
	"github.com/Delta-in-hub/FuseLLM/internal/asyncbridge"
	"github.com/Delta-in-hub/FuseLLM/internal/fuseadapter"
	"github.com/Delta-in-hub/FuseLLM/internal/handlers"
	"github.com/Delta-in-hub/FuseLLM/internal/llmport"
	"github.com/Delta-in-hub/FuseLLM/internal/logger"
	"github.com/Delta-in-hub/FuseLLM/internal/searchport"
	"github.com/Delta-in-hub/FuseLLM/internal/state"
	"github.com/Delta-in-hub/FuseLLM/metrics"
)

// runMount assembles every component (ports, bridge, store, dispatcher)
// and blocks serving the mount until it's unmounted or the process is
// signaled.
func runMount(ctx context.Context, c *cfg.Config) error {
	logger.Init(os.Stderr, c.Logging.Format, c.Logging.Severity)

	var m *metrics.Metrics
	if c.Metrics.Addr != "" {
		m = metrics.New()
		go func() {
			if err := metrics.Serve(ctx, c.Metrics.Addr, m); err != nil {
				logger.Errorf("metrics server stopped: %s", err)
			}
		}()
	}

	llm := llmport.NewHTTPPort(c.LLM.BaseURL, c.LLM.APIKey, c.LLM.ReqsPerSecond, m)
	search := searchport.NewSocketPort(c.Search.Network, c.Search.Addr, c.Search.ReqsPerSecond, m)

	bridge, err := asyncbridge.NewStaticWorkerPool(c.Workers.Priority, c.Workers.Normal)
	if err != nil {
		return fmt.Errorf("starting async bridge: %w", err)
	}
	defer bridge.Stop()
	bridge.SetMetrics(m)

	global := c.Global
	if c.LLM.DefaultModel != "" {
		global.DefaultModel = c.LLM.DefaultModel
	}
	store := state.New(global)

	ports := handlers.Ports{LLM: llm, Search: search, Bridge: bridge}
	fs := fuseadapter.New(store, ports, m)
	server := fuseutil.NewFileSystemServer(fs)

	mountCfg := &fuse.MountConfig{
		FSName:      "fusellm",
		Subtype:     "fusellm",
		VolumeName:  "FuseLLM",
		ErrorLogger: log.New(os.Stderr, "fuse: ", log.LstdFlags),
	}
	if c.Logging.Severity == "trace" || c.Logging.Severity == "debug" {
		mountCfg.DebugLogger = log.New(os.Stderr, "fuse_debug: ", log.LstdFlags)
	}

	logger.Infof("mounting fusellm at %q", c.MountPoint)
	mfs, err := fuse.Mount(c.MountPoint, server, mountCfg)
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Infof("received shutdown signal, unmounting %q", c.MountPoint)
		if err := fuse.Unmount(c.MountPoint); err != nil {
			logger.Errorf("unmount: %s", err)
		}
	}()

	if err := mfs.Join(context.Background()); err != nil {
		return fmt.Errorf("serving mount: %w", err)
	}

	logger.Infof("unmounted %q", c.MountPoint)
	return nil
}
