package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// file-backed cache for GitHub aggregation payloads, keyed by username

var cacheRoot = filepath.Join("cache", "github")

// GetCachePath returns the cache file path for a username
func GetCachePath(username string) string {
	hash := generateHash(username)
	shortHash := hash[:16]
	return filepath.Join(cacheRoot, fmt.Sprintf("%s_%s.json", sanitize(username), shortHash))
}

// generateHash generates an xxHash hash for the given string
func generateHash(s string) string {
	hash := xxhash.Sum64String(s)
	return fmt.Sprintf("%016x", hash)
}

// sanitize keeps filenames safe for usernames that carry path characters
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, s)
}

// Write stores a payload in the cache
func Write(username string, payload []byte) error {
	if err := os.MkdirAll(cacheRoot, 0755); err != nil {
		return err
	}
	return os.WriteFile(GetCachePath(username), payload, 0644)
}

// Read returns the cached payload if it exists and is not expired
func Read(username string, maxAge time.Duration) ([]byte, bool) {
	cachePath := GetCachePath(username)

	info, err := os.Stat(cachePath)
	if err != nil {
		return nil, false
	}

	if time.Since(info.ModTime()) > maxAge {
		return nil, false
	}

	content, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, false
	}

	return content, true
}

// Clear removes a specific cache file
func Clear(username string) error {
	err := os.Remove(GetCachePath(username))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ClearOld removes cache files older than the specified duration
func ClearOld(maxAge time.Duration) error {
	return filepath.Walk(cacheRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		if info.IsDir() {
			return nil
		}

		if !strings.HasSuffix(path, ".json") {
			return nil
		}

		if time.Since(info.ModTime()) > maxAge {
			os.Remove(path)
		}

		return nil
	})
}
