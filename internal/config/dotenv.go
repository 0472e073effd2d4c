package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"roster-sync/internal/logger"
)

const (
	dotenvFilename = ".env"
	// EnvFileVar points at an explicit env file, skipping the directory walk.
	EnvFileVar = "ROSTER_ENV_FILE"
)

// envEntry is one KEY=VALUE assignment and the file line it came from.
type envEntry struct {
	line  int
	key   string
	value string
}

// loadDotEnv seeds the process environment from the env file. Variables
// already set win. A missing file is not an error unless ROSTER_ENV_FILE
// names it.
func loadDotEnv(log logger.Logger) error {
	path, explicit := os.LookupEnv(EnvFileVar)
	if !explicit || path == "" {
		found, err := findUpward(dotenvFilename)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		path = found
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, malformed, err := readDotEnv(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for _, line := range malformed {
		log.Warn("dotenv: ignoring malformed line", "path", path, "line", line)
	}

	var loaded, kept int
	for _, e := range entries {
		if !isRosterKey(e.key) {
			log.Warn("dotenv: variable is not read by roster-sync", "path", path, "line", e.line, "key", e.key)
		}
		if _, set := os.LookupEnv(e.key); set {
			kept++
			continue
		}
		if err := os.Setenv(e.key, e.value); err != nil {
			return fmt.Errorf("%s:%d: %w", path, e.line, err)
		}
		loaded++
	}
	log.Debug("dotenv: applied", "path", path, "loaded", loaded, "kept_from_env", kept)
	return nil
}

func findUpward(filename string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, filename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// readDotEnv parses assignments in file order. Blank lines and # comments are
// skipped; lines that are not KEY=VALUE are reported by number.
func readDotEnv(r io.Reader) (entries []envEntry, malformed []int, err error) {
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		key, raw, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			malformed = append(malformed, n)
			continue
		}
		entries = append(entries, envEntry{line: n, key: key, value: parseValue(raw)})
	}
	return entries, malformed, sc.Err()
}

// parseValue unquotes "..." with Go escapes, keeps '...' literal, and cuts a
// trailing " # comment" from bare values.
func parseValue(raw string) string {
	v := strings.TrimSpace(raw)
	if len(v) >= 2 {
		switch q := v[0]; {
		case q == '"' && v[len(v)-1] == '"':
			if s, err := strconv.Unquote(v); err == nil {
				return s
			}
			return v[1 : len(v)-1]
		case q == '\'' && v[len(v)-1] == '\'':
			return v[1 : len(v)-1]
		}
	}
	if i := strings.Index(v, " #"); i >= 0 {
		v = v[:i]
	}
	if i := strings.Index(v, "\t#"); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

func isRosterKey(key string) bool {
	for _, prefix := range []string{"ROSTER_", "SFTP_", "LOG_", "IMPORT_"} {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}
