package storage

import (
	"fmt"
	"os"
	"strings"
)

// SeedIfEmpty runs the seed script only when the user table is empty, so a
// restart against a populated store never re-seeds. Returns whether the
// script was executed.
func (s *Store) SeedIfEmpty(path string) (bool, error) {
	count, err := s.CountUsers()
	if err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	return true, s.SeedFromScript(path)
}

// SeedFromScript executes a SQL seed script inside a single transaction.
// Statements are split on semicolons, so the script must not contain
// semicolons inside string literals. A missing file surfaces as an
// os.IsNotExist error for the caller to log and skip.
func (s *Store) SeedFromScript(path string) error {
	script, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, statement := range strings.Split(string(script), ";") {
		statement = strings.TrimSpace(statement)
		if statement == "" {
			continue
		}
		if _, err := tx.Exec(statement); err != nil {
			return fmt.Errorf("seed statement failed: %w", err)
		}
	}

	return tx.Commit()
}
