package executor

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchArtifacts reports output artifacts appearing in the run directory
// while the solver is still running. Long DRAGON cases are otherwise
// silent for minutes; the ISOTXS file showing up is the first sign the
// flux solution converged. Watching is best-effort: failures degrade to
// no progress reporting, never to a failed run.
func watchArtifacts(dir string, log *zap.SugaredLogger) (stop func()) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Debugw("artifact watcher unavailable", "error", err)
		return func() {}
	}
	if err := w.Add(dir); err != nil {
		log.Debugw("artifact watcher unavailable", "dir", dir, "error", err)
		w.Close()
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op.Has(fsnotify.Create) && filepath.Base(ev.Name) == ISOTXSName {
					log.Infow("cross-section artifact appeared", "artifact", ev.Name)
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return func() {
		w.Close()
		<-done
	}
}
