package main

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cboddy/i3-workspace-names-daemon/internal/util"
)

const debounceWindow = 250 * time.Millisecond

func watchConfig(logger *util.Logger, watcher *fsnotify.Watcher, targets map[string]struct{}, reloadRequests chan<- string) {
	watchEvents(logger, watcher.Events, watcher.Errors, targets, reloadRequests)
}

func watchEvents(logger *util.Logger, events <-chan fsnotify.Event, errs <-chan error, targets map[string]struct{}, reloadRequests chan<- string) {
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, watched := targets[filepath.Clean(event.Name)]; !watched {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.Debugf("rule file event: %s", event)
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					<-timerCh
				}
				timer.Reset(debounceWindow)
			}
		case <-timerCh:
			timer = nil
			timerCh = nil
			select {
			case reloadRequests <- "rule file updated":
			default:
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			logger.Warnf("rule watcher error: %v", err)
		}
	}
}
