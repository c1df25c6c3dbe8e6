// Package archive manages on-disk test-file artefacts once a RECORD run has
// finished: compressing them for long-term storage, dumping a
// human-readable copy for manual inspection, and sweeping old artefacts
// according to a retention policy.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gmtrace/internal/config"
	"gmtrace/internal/logging"
)

// RetentionPolicy bounds how many archived test files, and how old, are
// kept on disk.
type RetentionPolicy struct {
	MaxRuns int
	MaxAge  time.Duration
}

// StorageStats summarises the archive directory's disk footprint as of the
// last sweep.
type StorageStats struct {
	Runs      int
	Bytes     int64
	LastSweep time.Time
}

// Cleaner periodically prunes archived test-file artefacts. One logical
// artefact is a base test file (path.gmt) plus its optional compressed
// (.gmt.zst) and human-readable (.gmt.jsonl) companions, which move
// together.
type Cleaner struct {
	mu     sync.RWMutex
	dir    string
	policy RetentionPolicy
	log    *logging.Logger
	now    func() time.Time
	stats  StorageStats
}

// PolicyFromConfig adapts the environment-sourced archive tunables into a
// RetentionPolicy, so callers don't need to know the config package's field
// names line up with RetentionPolicy's.
func PolicyFromConfig(c config.ArchiveConfig) RetentionPolicy {
	return RetentionPolicy{MaxRuns: c.MaxRuns, MaxAge: c.MaxAge}
}

// NewCleaner constructs a Cleaner for the given archive directory.
func NewCleaner(dir string, policy RetentionPolicy, log *logging.Logger) *Cleaner {
	if log == nil {
		log = logging.L()
	}
	return &Cleaner{dir: dir, policy: policy, log: log, now: time.Now}
}

// Run sweeps immediately, then again on every tick, until ctx is cancelled.
func (c *Cleaner) Run(ctx context.Context, interval time.Duration) {
	if c == nil || ctx == nil {
		return
	}
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	c.sweep()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// RunOnce performs a single retention sweep; used by tests and by a host
// that wants to trigger a sweep on its own schedule.
func (c *Cleaner) RunOnce() {
	if c == nil {
		return
	}
	c.sweep()
}

// Stats returns a copy of the statistics from the last sweep.
func (c *Cleaner) Stats() StorageStats {
	if c == nil {
		return StorageStats{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

type artefact struct {
	base    string
	paths   []string
	size    int64
	modTime time.Time
}

func (c *Cleaner) sweep() {
	if c == nil || strings.TrimSpace(c.dir) == "" {
		return
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		c.log.Warn("archive retention scan failed", logging.Error(err), logging.String("directory", c.dir))
		return
	}
	artefacts := c.collect(entries)
	now := c.now()
	kept := 0
	stats := StorageStats{LastSweep: now}
	for _, art := range artefacts {
		if remove, reason := c.shouldRemove(art, now, kept); remove {
			if err := c.remove(art); err != nil {
				c.log.Warn("archive retention removal failed", logging.Error(err), logging.String("run", art.base))
			} else {
				c.log.Info("archive retention removed run", logging.String("run", art.base), logging.String("reason", reason))
				continue
			}
		}
		kept++
		stats.Runs++
		stats.Bytes += art.size
	}
	c.mu.Lock()
	c.stats = stats
	c.mu.Unlock()
}

// companionSuffixes lists the file extensions that travel with a base test
// file as one logical archived run.
var companionSuffixes = []string{".gmt", ".gmt.zst", ".gmt.jsonl"}

func baseName(name string) (string, bool) {
	for _, suffix := range companionSuffixes {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix), true
		}
	}
	return "", false
}

func (c *Cleaner) collect(entries []os.DirEntry) []*artefact {
	artefacts := make(map[string]*artefact)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		base, ok := baseName(entry.Name())
		if !ok {
			continue
		}
		path := filepath.Join(c.dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			c.log.Warn("archive retention stat failed", logging.Error(err), logging.String("path", path))
			continue
		}
		art := artefacts[base]
		if art == nil {
			art = &artefact{base: base, modTime: info.ModTime()}
			artefacts[base] = art
		}
		if info.ModTime().After(art.modTime) {
			art.modTime = info.ModTime()
		}
		art.paths = append(art.paths, path)
		art.size += info.Size()
	}
	list := make([]*artefact, 0, len(artefacts))
	for _, art := range artefacts {
		list = append(list, art)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].modTime.After(list[j].modTime) })
	return list
}

func (c *Cleaner) shouldRemove(art *artefact, now time.Time, kept int) (bool, string) {
	reasons := make([]string, 0, 2)
	if c.policy.MaxAge > 0 && now.Sub(art.modTime) > c.policy.MaxAge {
		reasons = append(reasons, fmt.Sprintf("age>%s", c.policy.MaxAge))
	}
	if c.policy.MaxRuns > 0 && kept >= c.policy.MaxRuns {
		reasons = append(reasons, fmt.Sprintf(">=%d runs", c.policy.MaxRuns))
	}
	return len(reasons) > 0, strings.Join(reasons, ", ")
}

func (c *Cleaner) remove(art *artefact) error {
	var errs error
	for _, path := range art.paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
