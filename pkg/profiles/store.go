// PadShift Core
// Copyright (c) 2026 The PadShift Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of PadShift Core.
//
// PadShift Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// PadShift Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with PadShift Core.  If not, see <http://www.gnu.org/licenses/>.

package profiles

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/PadShiftProject/padshift-core/pkg/database"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no profile matches a lookup.
var ErrNotFound = errors.New("profile not found")

const sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000"

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Store persists profiles in a sqlite database.
type Store struct {
	sql *sql.DB
}

// OpenStore opens (creating if necessary) the profile database at dbPath and
// runs any pending schema migrations.
func OpenStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory for database: %w", err)
	}

	sqlInstance, err := sql.Open("sqlite3", dbPath+sqliteConnParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.MigrateUp(sqlInstance, migrationFiles, "migrations"); err != nil {
		_ = sqlInstance.Close()
		return nil, fmt.Errorf("failed to run profile database migrations: %w", err)
	}

	return &Store{sql: sqlInstance}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.sql.Close(); err != nil {
		return fmt.Errorf("failed to close profile database: %w", err)
	}
	return nil
}

// Add inserts a profile. The slot invariant is applied before writing.
func (s *Store) Add(ctx context.Context, profile *Profile) error {
	profile.Normalize()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}

	_, err := s.sql.ExecContext(ctx, `
		insert into Profiles(
			Name, GameExecutable, GamePath,
			Slot0, Slot1, Slot2, Slot3,
			SuppressHidden, CreatedAt
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		profile.Name, profile.GameExecutable, profile.GamePath,
		profile.SlotAssignments[0], profile.SlotAssignments[1],
		profile.SlotAssignments[2], profile.SlotAssignments[3],
		profile.SuppressHidden, profile.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// Get returns the profile with the given name.
func (s *Store) Get(ctx context.Context, name string) (*Profile, error) {
	row := s.sql.QueryRowContext(ctx, `
		select Name, GameExecutable, GamePath,
			Slot0, Slot1, Slot2, Slot3,
			SuppressHidden, CreatedAt
		from Profiles where Name = ?;
	`, name)
	return scanProfile(row)
}

// GetByExecutable returns the profile targeting the given executable base
// name, compared case-insensitively.
func (s *Store) GetByExecutable(ctx context.Context, exe string) (*Profile, error) {
	row := s.sql.QueryRowContext(ctx, `
		select Name, GameExecutable, GamePath,
			Slot0, Slot1, Slot2, Slot3,
			SuppressHidden, CreatedAt
		from Profiles where lower(GameExecutable) = lower(?)
		order by CreatedAt desc limit 1;
	`, exe)
	return scanProfile(row)
}

// List returns all profiles ordered by name.
func (s *Store) List(ctx context.Context) ([]Profile, error) {
	rows, err := s.sql.QueryContext(ctx, `
		select Name, GameExecutable, GamePath,
			Slot0, Slot1, Slot2, Slot3,
			SuppressHidden, CreatedAt
		from Profiles order by Name;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}
	return result, nil
}

// Delete removes the profile with the given name. Deleting a profile that
// does not exist is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.sql.ExecContext(ctx, `delete from Profiles where Name = ?;`, name)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	var p Profile
	var slots [SlotCount]string
	var createdAt int64

	err := row.Scan(
		&p.Name, &p.GameExecutable, &p.GamePath,
		&slots[0], &slots[1], &slots[2], &slots[3],
		&p.SuppressHidden, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	p.SlotAssignments = NormalizeSlots(slots[:])
	p.CreatedAt = time.Unix(createdAt, 0)
	return &p, nil
}
