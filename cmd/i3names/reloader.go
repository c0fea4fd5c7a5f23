package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/cboddy/i3-workspace-names-daemon/internal/config"
	"github.com/cboddy/i3-workspace-names-daemon/internal/engine"
	"github.com/cboddy/i3-workspace-names-daemon/internal/icons"
	"github.com/cboddy/i3-workspace-names-daemon/internal/rules"
	"github.com/cboddy/i3-workspace-names-daemon/internal/util"
)

type configReloader struct {
	explicit string
	logger   *util.Logger
	engine   *engine.Engine
	icons    icons.Table
	opts     config.Options

	mu             sync.Mutex
	path           string
	lastSerialized []byte
}

func newConfigReloader(explicit, path string, logger *util.Logger, eng *engine.Engine, iconTable icons.Table, opts config.Options, serialized []byte) *configReloader {
	return &configReloader{
		explicit:       explicit,
		logger:         logger,
		engine:         eng,
		icons:          iconTable,
		opts:           opts,
		path:           path,
		lastSerialized: append([]byte(nil), serialized...),
	}
}

// Path returns the rule file currently in use, empty for the built-in defaults.
func (r *configReloader) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// Reload re-reads the rule file and swaps the engine's table. A file that
// fails to parse leaves the previous table in place.
func (r *configReloader) Reload(reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Infof("%s, reloading rules", reason)
	path, err := config.Locate(r.explicit)
	if err != nil {
		return err
	}

	cfg := config.Default()
	var raw []byte
	if path != "" {
		raw, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read rules: %w", err)
		}
		cfg, err = config.Parse(raw)
		if err != nil {
			r.logDiff(raw)
			return fmt.Errorf("parse %s: %w", path, err)
		}
		cfg.Path = path
	}
	logLintErrors(r.logger, cfg.Lint(r.icons))

	r.engine.ReloadTable(rules.Compile(cfg, r.icons, r.opts))
	if path != r.path {
		r.logger.Infof("rule file is now %s", describePath(path))
	}
	r.path = path
	r.lastSerialized = append([]byte(nil), raw...)
	return nil
}

func (r *configReloader) logDiff(current []byte) {
	diff := config.DiffSerialized(r.lastSerialized, current)
	if diff == "" {
		r.logger.Warnf("rule change rejected; unable to compute diff vs last valid rules")
		return
	}
	r.logger.Warnf("rule change rejected; diff vs last valid rules:\n%s", diff)
}

func logLintErrors(logger *util.Logger, errs []config.LintError) {
	if len(errs) == 0 {
		return
	}
	logger.Warnf("rule file has %d issue(s):", len(errs))
	for _, lintErr := range errs {
		logger.Warnf(" - %s", lintErr.Error())
	}
}

func describePath(path string) string {
	if path == "" {
		return "the built-in defaults"
	}
	return path
}
