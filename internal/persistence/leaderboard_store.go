package persistence

import (
	"context"
	"fmt"

	"github.com/duskforge/labyrinth/internal/engine"
)

// LeaderboardStore is the Postgres-backed append-only leaderboard (spec
// §6.3), grounded on the same query/Scan shape as character_store.go.
type LeaderboardStore struct {
	db *DB
}

func NewLeaderboardStore(db *DB) *LeaderboardStore {
	return &LeaderboardStore{db: db}
}

func (s *LeaderboardStore) Append(entry engine.LeaderboardEntry) error {
	_, err := s.db.Pool.Exec(context.Background(),
		`INSERT INTO leaderboard_entries (name, level, difficulty, run_date, monsters, quests, gold)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		entry.Name, entry.Level, entry.Difficulty, entry.Date, entry.Monsters, entry.Quests, entry.Gold,
	)
	if err != nil {
		return fmt.Errorf("append leaderboard entry: %w", err)
	}
	return nil
}

func (s *LeaderboardStore) Recent(limit int) ([]engine.LeaderboardEntry, error) {
	rows, err := s.db.Pool.Query(context.Background(),
		`SELECT name, level, difficulty, run_date, monsters, quests, gold
		 FROM leaderboard_entries ORDER BY run_date DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []engine.LeaderboardEntry
	for rows.Next() {
		var e engine.LeaderboardEntry
		if err := rows.Scan(&e.Name, &e.Level, &e.Difficulty, &e.Date, &e.Monsters, &e.Quests, &e.Gold); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
