// Package cache removes expired files from the directories edifice writes to.
package cache

import (
	"os"
	"strings"
	"time"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/filesystem"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/key"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/log"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/where"
	"github.com/spf13/viper"
)

// Prune removes the files under dir last modified before now minus ttl, plus leftovers of interrupted writes.
// It returns how many files were removed.
func Prune(dir string, ttl time.Duration, now time.Time) (int, error) {
	fs := filesystem.API()
	if exists, err := fs.DirExists(dir); err != nil || !exists {
		return 0, err
	}

	var removed int
	err := fs.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		stale := ttl > 0 && now.Sub(info.ModTime()) > ttl
		if !stale && !strings.HasSuffix(info.Name(), ".tmp") {
			return nil
		}

		if err := fs.Remove(path); err != nil {
			log.Warnf("prune %s: %v", path, err)
			return nil
		}
		removed++
		return nil
	})
	return removed, err
}

// CollectGarbage prunes old log files and interrupted cache writes.
func CollectGarbage() {
	ttl := time.Duration(viper.GetInt(key.LogsKeepDays)) * 24 * time.Hour
	now := time.Now()

	targets := []struct {
		dir string
		ttl time.Duration
	}{
		{where.Logs(), ttl},
		{where.Cache(), 0},
	}

	for _, target := range targets {
		dir := target.dir
		removed, err := Prune(dir, target.ttl, now)
		if err != nil {
			log.Warnf("collect garbage in %s: %v", dir, err)
			continue
		}
		if removed > 0 {
			log.Debugf("removed %d files from %s", removed, dir)
		}
	}
}
