package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"github.com/cboddy/i3-workspace-names-daemon/internal/config"
	"github.com/cboddy/i3-workspace-names-daemon/internal/control"
	"github.com/cboddy/i3-workspace-names-daemon/internal/engine"
	"github.com/cboddy/i3-workspace-names-daemon/internal/icons"
	"github.com/cboddy/i3-workspace-names-daemon/internal/ipc"
	"github.com/cboddy/i3-workspace-names-daemon/internal/metrics"
	"github.com/cboddy/i3-workspace-names-daemon/internal/rules"
	"github.com/cboddy/i3-workspace-names-daemon/internal/util"
)

func runDaemon(parent context.Context, flags daemonFlags) error {
	if parent == nil {
		parent = context.Background()
	}
	opts := flags.options()
	if err := opts.Validate(); err != nil {
		return err
	}
	logger := util.NewLogger(util.ParseLogLevel(flags.level()))

	if socket := ipc.UseSocket(flags.i3Socket); socket != "" {
		logger.Debugf("using i3 socket %s", socket)
	}

	iconTable := icons.Default()
	cfg, raw, err := config.LoadOrDefault(flags.configPath)
	if err != nil {
		return err
	}
	path := cfg.Path
	if path == "" {
		logger.Infof("no rule file found, using built-in defaults")
	} else {
		logger.Infof("loaded %d rules from %s", len(cfg.Rules), path)
	}
	logLintErrors(logger, cfg.Lint(iconTable))

	table := rules.Compile(cfg, iconTable, opts)
	collector := metrics.NewCollector(flags.metrics)
	eng := engine.New(ipc.NewClient(), logger, table, flags.dryRun, collector)
	eng.SetReconcileInterval(flags.reconcileInterval)

	reloader := newConfigReloader(flags.configPath, path, logger, eng, iconTable, opts, raw)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch rules: %w", err)
	}
	defer watcher.Close()
	targets := watchTargets(path)
	for dir := range watchDirs(targets) {
		if err := watcher.Add(dir); err != nil {
			logger.Debugf("unable to watch %s: %v", dir, err)
		}
	}
	reloadRequests := make(chan string, 1)
	go watchConfig(logger, watcher, targets, reloadRequests)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	reload := reloader.Reload

	errs := make(chan error, 2)
	go func() {
		errs <- eng.Run(ctx)
	}()
	if !flags.noControl {
		ctrlSrv, err := control.NewServer(eng, logger, reload, reloader.Path)
		if err != nil {
			return fmt.Errorf("start control server: %w", err)
		}
		go func() {
			if err := ctrlSrv.Serve(ctx); err != nil {
				logger.Errorf("control server stopped: %v", err)
			}
		}()
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigs)

	reloadAndRename := func(reason string) {
		if err := reload(reason); err != nil {
			logger.Errorf("reload failed: %v", err)
			return
		}
		if err := eng.Reconcile(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorf("rename after reload failed: %v", err)
		}
	}

	for {
		select {
		case err := <-errs:
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("engine exited: %w", err)
			}
			logger.Infof("engine stopped")
			return nil
		case reason := <-reloadRequests:
			reloadAndRename(reason)
		case sig := <-sigs:
			switch sig {
			case syscall.SIGHUP:
				reloadAndRename("received SIGHUP")
			case os.Interrupt, syscall.SIGTERM:
				logger.Infof("received %s, shutting down", sig)
				cancel()
			}
		}
	}
}

// watchTargets lists the files whose changes trigger a reload. Without a rule
// file every candidate name in the i3 config directories is watched so that
// creating one is picked up.
func watchTargets(path string) map[string]struct{} {
	targets := make(map[string]struct{})
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		targets[filepath.Clean(path)] = struct{}{}
		return targets
	}
	for _, dir := range config.I3Dirs() {
		for _, name := range config.FileNames {
			targets[filepath.Join(dir, name)] = struct{}{}
		}
	}
	return targets
}

func watchDirs(targets map[string]struct{}) map[string]struct{} {
	dirs := make(map[string]struct{}, len(targets))
	for target := range targets {
		dirs[filepath.Dir(target)] = struct{}{}
	}
	return dirs
}
