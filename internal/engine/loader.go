package engine

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/nguyentantai21042004/deck2video/internal/config"
	"github.com/nguyentantai21042004/deck2video/internal/logger"
	"github.com/nguyentantai21042004/deck2video/pkg/executor"
	"golang.org/x/sync/singleflight"
)

type implLoader struct {
	sources      []config.SourceConfig
	resources    config.ResourcesConfig
	workspace    string
	cacheDir     string
	fetchTimeout time.Duration

	fetcher  Fetcher
	executor executor.Executor
	lookPath func(string) (string, error)
	checkEnv EnvironmentCheck
	logger   logger.Logger

	group  singleflight.Group
	mu     sync.Mutex
	engine Engine
}

func (l *implLoader) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine != nil
}

// EnsureReady returns the loaded engine, loading it on first use. Concurrent callers
// during a load share its outcome. The load is detached from any single caller's
// cancellation; a cancelled caller stops waiting while the others keep theirs.
// Failures are not cached.
func (l *implLoader) EnsureReady(ctx context.Context) (Engine, error) {
	l.mu.Lock()
	eng := l.engine
	l.mu.Unlock()
	if eng != nil {
		return eng, nil
	}

	ch := l.group.DoChan("engine", func() (interface{}, error) {
		l.mu.Lock()
		if l.engine != nil {
			eng := l.engine
			l.mu.Unlock()
			return eng, nil
		}
		l.mu.Unlock()

		eng, err := l.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.engine = eng
		l.mu.Unlock()
		return eng, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			l.logger.Debug(ctx, "Joined in-flight engine load")
		}
		return res.Val.(Engine), nil
	}
}

func (l *implLoader) load(ctx context.Context) (Engine, error) {
	if err := l.checkEnv(l.workspace); err != nil {
		l.logger.Error(ctx, "Environment check failed: %v", err)
		return nil, err
	}

	start := time.Now()
	loadErr := &EngineLoadError{}
	for _, src := range l.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		eng, err := l.trySource(ctx, src)
		if err != nil {
			l.logger.Warn(ctx, "Source %s failed: %v", src.Name, err)
			loadErr.Failures = append(loadErr.Failures, SourceError{Source: src.Name, Err: err})
			continue
		}

		l.logger.Info(ctx, "Engine ready from source %s in %v", src.Name, time.Since(start).Round(time.Millisecond))
		return eng, nil
	}

	l.logger.Error(ctx, "%v", loadErr)
	return nil, loadErr
}

func (l *implLoader) trySource(ctx context.Context, src config.SourceConfig) (Engine, error) {
	var ffmpeg, ffprobe string
	var err error

	switch src.Kind {
	case config.SourceKindPath:
		ffmpeg, ffprobe, err = l.resolvePath()
	case config.SourceKindHTTP:
		ffmpeg, ffprobe, err = l.download(ctx, src)
	default:
		err = fmt.Errorf("unknown source kind %q", src.Kind)
	}
	if err != nil {
		return nil, err
	}

	eng := &ffmpegEngine{
		source:   src.Name,
		ffmpeg:   ffmpeg,
		ffprobe:  ffprobe,
		dir:      l.workspace,
		executor: l.executor,
	}
	if err := eng.init(ctx); err != nil {
		return nil, err
	}
	return eng, nil
}

func (l *implLoader) resolvePath() (string, string, error) {
	ffmpeg, err := l.lookPath(binaryName(l.resources.Core))
	if err != nil {
		return "", "", fmt.Errorf("find %s: %w", l.resources.Core, err)
	}
	ffprobe, err := l.lookPath(binaryName(l.resources.Probe))
	if err != nil {
		return "", "", fmt.Errorf("find %s: %w", l.resources.Probe, err)
	}
	return ffmpeg, ffprobe, nil
}

// download fetches all resources from one source and verifies them before anything is
// written, so a partial fetch never leaves a usable-looking cache behind.
func (l *implLoader) download(ctx context.Context, src config.SourceConfig) (string, string, error) {
	dir := filepath.Join(l.cacheDir, src.Name)
	core := filepath.Join(dir, binaryName(l.resources.Core))
	probe := filepath.Join(dir, binaryName(l.resources.Probe))

	if isExecutable(core) && isExecutable(probe) {
		l.logger.Debug(ctx, "Using cached binaries in %s", dir)
		return core, probe, nil
	}

	fctx := ctx
	if l.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, l.fetchTimeout)
		defer cancel()
	}

	sumsData, err := l.fetch(fctx, src.BaseURL, l.resources.Checksums)
	if err != nil {
		return "", "", err
	}
	sums := parseChecksums(sumsData)

	files := map[string][]byte{}
	for _, name := range []string{l.resources.Core, l.resources.Probe} {
		data, err := l.fetch(fctx, src.BaseURL, name)
		if err != nil {
			return "", "", err
		}
		if err := verifyChecksum(sums, name, data); err != nil {
			return "", "", err
		}
		files[name] = data
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("create cache dir: %w", err)
	}
	if err := writeExecutable(core, files[l.resources.Core]); err != nil {
		return "", "", err
	}
	if err := writeExecutable(probe, files[l.resources.Probe]); err != nil {
		return "", "", err
	}

	l.logger.Info(ctx, "Downloaded %s and %s from %s", l.resources.Core, l.resources.Probe, src.Name)
	return core, probe, nil
}

func (l *implLoader) fetch(ctx context.Context, base, name string) ([]byte, error) {
	u, err := url.JoinPath(base, name)
	if err != nil {
		return nil, fmt.Errorf("build url for %s: %w", name, err)
	}
	data, err := l.fetcher.Fetch(ctx, u)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("fetch %s: timed out after %v", name, l.fetchTimeout)
		}
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	return data, nil
}

func writeExecutable(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0755); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("install %s: %w", filepath.Base(path), err)
	}
	return nil
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return runtime.GOOS == "windows" || info.Mode().Perm()&0111 != 0
}

func binaryName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}
