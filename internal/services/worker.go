package services

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Worker is a background task with an explicit lifecycle.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}

// mediaJanitor removes temporary answer videos that outlived their TTL,
// which only happens when a request died before releasing its media.
type mediaJanitor struct {
	dir      string
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewMediaJanitor(dir string, ttl, interval time.Duration) Worker {
	return &mediaJanitor{
		dir:      dir,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Start implements Worker.
func (j *mediaJanitor) Start(ctx context.Context) {
	log.Printf("🧹 Starting media janitor on %s (ttl %s, every %s)\n", j.dir, j.ttl, j.interval)

	j.wg.Add(1)
	go j.run(ctx)
}

// Stop implements Worker.
func (j *mediaJanitor) Stop() {
	j.stopOnce.Do(func() {
		log.Println("🛑 Stopping media janitor...")
		close(j.stopChan)
		j.wg.Wait()
		log.Println("✅ Media janitor stopped")
	})
}

func (j *mediaJanitor) run(ctx context.Context) {
	defer j.wg.Done()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := j.sweep(); n > 0 {
				log.Printf("🧹 Removed %d stale media files\n", n)
			}
		}
	}
}

// sweep deletes regular files older than the TTL and reports how many went.
func (j *mediaJanitor) sweep() int {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️  Failed to read media directory: %v\n", err)
		}
		return 0
	}

	cutoff := j.now().Add(-j.ttl)
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(j.dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			log.Printf("⚠️  Failed to remove %s: %v\n", entry.Name(), err)
			continue
		}
		removed++
	}
	return removed
}
