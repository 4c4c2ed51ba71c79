// Copyright 2025.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/Adembc/lazylaunch/internal/core/ports"
)

var _ ports.HistoryStore = (*HistoryRepo)(nil)

// timeLayout is fixed width so connected_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryRepo is the SQLite implementation of ports.HistoryStore.
type HistoryRepo struct {
	db *DB
}

func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) Record(ctx context.Context, event domain.ConnectionEvent) error {
	const query = `INSERT INTO connections (id, host, label, protocol, target, connected_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.Writer.ExecContext(ctx, query,
		event.ID, event.Host, event.Label, string(event.Kind), event.Target,
		event.ConnectedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("record connection %s: %w", event.ID, err)
	}
	return nil
}

// Recent returns the newest events first.
func (r *HistoryRepo) Recent(ctx context.Context, limit int) ([]domain.ConnectionEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT id, host, label, protocol, target, connected_at
		FROM connections ORDER BY connected_at DESC LIMIT ?`
	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	defer rows.Close()

	var events []domain.ConnectionEvent
	for rows.Next() {
		var e domain.ConnectionEvent
		var kind, at string
		if err := rows.Scan(&e.ID, &e.Host, &e.Label, &kind, &e.Target, &at); err != nil {
			return nil, fmt.Errorf("scan connection: %w", err)
		}
		e.Kind = domain.ProtocolKind(kind)
		e.ConnectedAt, err = time.Parse(timeLayout, at)
		if err != nil {
			return nil, fmt.Errorf("parse connected_at for %s: %w", e.ID, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate connections: %w", err)
	}
	return events, nil
}
