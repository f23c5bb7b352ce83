// Package executor runs the DRAGON code on a rendered input deck.
//
// DRAGON writes scratch files with fixed names (_main001, _DUMMY, and the
// ISOTXS artifact), so concurrent runs in one directory collide. Every
// invocation therefore gets a private working directory; inputs are copied
// in, the code runs with the deck on stdin, and the artifacts are moved
// back next to the deck afterwards.
package executor

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"dragonplug/internal/cache"
	"dragonplug/internal/deck"
	"dragonplug/internal/logging"
)

// ISOTXSName is the artifact name DRAGON uses natively for the first
// cross-section library it writes.
const ISOTXSName = "ISOTXS000001"

// logArtifactName keys the run log inside cache entries. The on-disk log
// name derives from the deck file name, which is not part of the cache
// key, so entries use a fixed name instead.
const logArtifactName = "LOG"

// Options configures a single executor.
type Options struct {
	ExePath     string
	DataPath    string        // DRAGLIB nuclear data file
	WorkRoot    string        // parent for private run dirs; "" = os.TempDir()
	XsID        string        // cross-section id, names the returned ISO file
	Timeout     time.Duration // 0 = no limit
	KeepWorkDir bool
}

// Result describes a completed run. Paths point at files in the deck's
// directory, not the (usually deleted) private working directory.
type Result struct {
	ISOTXSPath string
	LogPath    string
	WorkDir    string
	Cached     bool
	Elapsed    time.Duration
}

// Executor runs DRAGON cases one at a time. Instances are cheap; the
// runner builds one per solve request.
type Executor struct {
	opts  Options
	cache *cache.Cache
}

// New builds an executor. cache may be nil to disable output caching.
func New(opts Options, c *cache.Cache) *Executor {
	return &Executor{opts: opts, cache: c}
}

// Run executes the deck at deckPath and places ISO<xsid> and <deck>out
// next to it. It blocks until the subprocess exits; cancelling ctx kills
// the subprocess.
func (e *Executor) Run(ctx context.Context, deckPath string) (*Result, error) {
	log := logging.For(logging.CategoryExecute)
	start := time.Now()

	deckName := filepath.Base(deckPath)
	destDir := filepath.Dir(deckPath)
	logName := deckName + "out"
	isoName := "ISO" + e.opts.XsID

	deckBytes, err := os.ReadFile(deckPath)
	if err != nil {
		return nil, fmt.Errorf("reading deck: %w", err)
	}

	var key string
	if e.cache != nil {
		key, err = e.cacheKey(deckBytes)
		if err != nil {
			return nil, err
		}
		if outputs, ok, err := e.cache.Get(key); err != nil {
			log.Warnw("cache lookup failed, running anyway", "error", err)
		} else if ok {
			// An entry missing an expected artifact is a miss, not a
			// failed run.
			if err := writeOutputs(destDir, map[string]string{
				ISOTXSName:      isoName,
				logArtifactName: logName,
			}, outputs); err != nil {
				log.Warnw("cache entry unusable, running anyway", "error", err)
			} else {
				log.Infow("output cache hit, skipping subprocess", "deck", deckName)
				return &Result{
					ISOTXSPath: filepath.Join(destDir, isoName),
					LogPath:    filepath.Join(destDir, logName),
					Cached:     true,
					Elapsed:    time.Since(start),
				}, nil
			}
		}
	}

	workRoot := e.opts.WorkRoot
	if workRoot == "" {
		workRoot = os.TempDir()
	}
	runDir := filepath.Join(workRoot, fmt.Sprintf("dragon-%s-%s", e.opts.XsID, uuid.NewString()[:8]))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}
	if !e.opts.KeepWorkDir {
		defer os.RemoveAll(runDir)
	}

	if err := e.stageInputs(runDir, deckPath); err != nil {
		return nil, err
	}

	stop := watchArtifacts(runDir, log)
	defer stop()

	if err := e.runCase(ctx, runDir, deckName, logName); err != nil {
		// The log is still worth keeping on failure.
		_ = moveFile(filepath.Join(runDir, logName), filepath.Join(destDir, logName))
		return nil, err
	}

	isoSrc := filepath.Join(runDir, ISOTXSName)
	if _, err := os.Stat(isoSrc); err != nil {
		_ = moveFile(filepath.Join(runDir, logName), filepath.Join(destDir, logName))
		return nil, &ExecutionError{Deck: deckName, ExitCode: 0,
			Detail: fmt.Sprintf("no %s artifact produced", ISOTXSName)}
	}

	if err := moveFile(isoSrc, filepath.Join(destDir, isoName)); err != nil {
		return nil, err
	}
	if err := moveFile(filepath.Join(runDir, logName), filepath.Join(destDir, logName)); err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.storeOutputs(key, destDir, map[string]string{
			isoName: ISOTXSName,
			logName: logArtifactName,
		})
	}

	elapsed := time.Since(start)
	log.Infow("dragon run complete", "deck", deckName, "elapsed", elapsed)
	return &Result{
		ISOTXSPath: filepath.Join(destDir, isoName),
		LogPath:    filepath.Join(destDir, logName),
		WorkDir:    runDir,
		Elapsed:    elapsed,
	}, nil
}

// stageInputs copies the deck and nuclear data file into the run
// directory. The data file takes its short name there; decks can only
// reference library files of at most deck.MaxLibNameChars characters.
func (e *Executor) stageInputs(runDir, deckPath string) error {
	if err := copyFile(deckPath, filepath.Join(runDir, filepath.Base(deckPath))); err != nil {
		return fmt.Errorf("staging deck: %w", err)
	}
	short := deck.ShortLibName(e.opts.DataPath)
	if err := copyFile(e.opts.DataPath, filepath.Join(runDir, short)); err != nil {
		return fmt.Errorf("staging nuclear data: %w", err)
	}
	return nil
}

// runCase launches the executable with the deck on stdin and everything it
// prints captured in the log file.
func (e *Executor) runCase(ctx context.Context, runDir, deckName, logName string) error {
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	deckFile, err := os.Open(filepath.Join(runDir, deckName))
	if err != nil {
		return fmt.Errorf("opening staged deck: %w", err)
	}
	defer deckFile.Close()

	logPath := filepath.Join(runDir, logName)
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating run log: %w", err)
	}
	defer logFile.Close()

	cmd := exec.CommandContext(ctx, e.opts.ExePath)
	cmd.Dir = runDir
	cmd.Stdin = deckFile
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	logging.For(logging.CategoryExecute).Infow("launching dragon",
		"exe", e.opts.ExePath, "deck", deckName, "dir", runDir)

	err = cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &ExecutionError{Deck: deckName, ExitCode: -1,
			Detail: "subprocess terminated", Err: ctxErr}
	}
	if err != nil {
		exitCode := -1
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		}
		return &ExecutionError{Deck: deckName, ExitCode: exitCode,
			Detail: fmt.Sprintf("exit code %d", exitCode), Err: err}
	}

	if marker, found := scanForAbort(logPath); found {
		return &ExecutionError{Deck: deckName, ExitCode: 0,
			Detail: fmt.Sprintf("abort recorded in run log: %q", marker)}
	}
	return nil
}

func (e *Executor) cacheKey(deckBytes []byte) (string, error) {
	exeID := e.opts.ExePath
	if info, err := os.Stat(e.opts.ExePath); err == nil {
		exeID = fmt.Sprintf("%s %d %d", e.opts.ExePath, info.Size(), info.ModTime().UnixNano())
	}
	dataDigest, err := fileDigest(e.opts.DataPath)
	if err != nil {
		return "", fmt.Errorf("digesting nuclear data: %w", err)
	}
	return cache.Key(exeID, deckBytes, []byte(dataDigest)), nil
}

// storeOutputs records the run artifacts. Cache failures are logged, not
// fatal: the run already succeeded.
func (e *Executor) storeOutputs(key, dir string, names map[string]string) {
	log := logging.For(logging.CategoryCache)
	outputs := make(map[string][]byte, len(names))
	for local, canonical := range names {
		data, err := os.ReadFile(filepath.Join(dir, local))
		if err != nil {
			log.Warnw("skipping cache store", "error", err)
			return
		}
		outputs[canonical] = data
	}
	if err := e.cache.Put(key, outputs); err != nil {
		log.Warnw("cache store failed", "error", err)
	}
}

// scanForAbort looks for DRAGON's abort marker in the run log. DRAGON can
// exit zero after printing an abort, so the exit code alone is not enough.
func scanForAbort(logPath string) (string, bool) {
	f, err := os.Open(logPath)
	if err != nil {
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "ABORT") {
			return strings.TrimSpace(line), true
		}
	}
	return "", false
}

func writeOutputs(dir string, names map[string]string, outputs map[string][]byte) error {
	for canonical, local := range names {
		data, ok := outputs[canonical]
		if !ok {
			return fmt.Errorf("cache entry missing artifact %s", canonical)
		}
		if err := os.WriteFile(filepath.Join(dir, local), data, 0o644); err != nil {
			return fmt.Errorf("restoring cached artifact %s: %w", local, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// moveFile renames when possible and falls back to copy+remove for moves
// across filesystems (the work root is often node-local scratch).
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
