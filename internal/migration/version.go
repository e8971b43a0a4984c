package migration

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
)

type upMigration struct {
	name    string
	version uint
}

// upMigrations lists the embedded up files ordered by version.
func upMigrations() ([]upMigration, error) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	var out []upMigration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		version, ok := parseMigrationVersion(name)
		if !ok {
			return nil, fmt.Errorf("invalid migration filename: %s", name)
		}
		out = append(out, upMigration{name: name, version: version})
	}
	if len(out) == 0 {
		return nil, errors.New("no embedded migrations found")
	}

	slices.SortFunc(out, func(a, b upMigration) int {
		return int(a.version) - int(b.version)
	})
	return out, nil
}

// LatestMigrationVersion returns the highest embedded migration version.
func LatestMigrationVersion() (uint, error) {
	ups, err := upMigrations()
	if err != nil {
		return 0, err
	}
	return ups[len(ups)-1].version, nil
}

// MigrationsChecksum hashes every up migration in version order, so any edit
// to an applied file changes it.
func MigrationsChecksum() (string, error) {
	ups, err := upMigrations()
	if err != nil {
		return "", err
	}

	h := sha256.New()
	for _, up := range ups {
		content, err := embeddedMigrations.ReadFile(migrationsDir + "/" + up.name)
		if err != nil {
			return "", fmt.Errorf("read migration %s: %w", up.name, err)
		}
		h.Write([]byte(up.name))
		h.Write([]byte{0})
		h.Write(content)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func parseMigrationVersion(name string) (uint, bool) {
	value, _, ok := strings.Cut(name, "_")
	if !ok {
		return 0, false
	}
	parsed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil || parsed == 0 {
		return 0, false
	}
	return uint(parsed), true
}
