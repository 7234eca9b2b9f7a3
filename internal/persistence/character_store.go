package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/duskforge/labyrinth/internal/entity"
)

// CharacterStore is the Postgres-backed SaveStore (spec §4.9), mirroring
// internal/persist/character_repo.go's repo-holds-*DB, context-per-call
// shape. The full record is kept as JSONB so Load/Deserialize never has to
// reassemble it from columns; the scalar columns and the inventory/quest
// tables exist alongside it for queries that don't want to load and decode
// the whole blob (leaderboard-adjacent reporting, admin tooling).
type CharacterStore struct {
	db *DB
}

func NewCharacterStore(db *DB) *CharacterStore {
	return &CharacterStore{db: db}
}

func (s *CharacterStore) Save(deviceID string, rec entity.Record) error {
	ctx := context.Background()
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO character_saves (
			device_id, name, difficulty, hp, max_hp, gold, level, xp,
			death_count, unsold_magic_items, unspent_stat_points,
			equipped_weapon, equipped_armor, healing_potions, data, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15, now())
		ON CONFLICT (device_id) DO UPDATE SET
			name = $2, difficulty = $3, hp = $4, max_hp = $5, gold = $6,
			level = $7, xp = $8, death_count = $9, unsold_magic_items = $10,
			unspent_stat_points = $11, equipped_weapon = $12,
			equipped_armor = $13, healing_potions = $14, data = $15,
			updated_at = now()`,
		deviceID, recString(rec, "name"), recString(rec, "difficulty"),
		recInt(rec, "hp"), recInt(rec, "max_hp"), recInt(rec, "gold"),
		recInt(rec, "level"), recInt(rec, "xp"), recInt(rec, "death_count"),
		recInt(rec, "unsold_magic_items"), recInt(rec, "unspent_stat_points"),
		recInt(rec, "equipped_weapon"), recInt(rec, "equipped_armor"),
		recInt(rec, "healing_potions"), raw,
	)
	if err != nil {
		return fmt.Errorf("upsert character_saves: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM character_inventory WHERE device_id = $1`, deviceID); err != nil {
		return fmt.Errorf("clear inventory: %w", err)
	}
	if err := insertInventory(ctx, tx, deviceID, rec); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM character_quests WHERE device_id = $1`, deviceID); err != nil {
		return fmt.Errorf("clear quests: %w", err)
	}
	if err := insertQuests(ctx, tx, deviceID, rec); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertInventory(ctx context.Context, tx pgx.Tx, deviceID string, rec entity.Record) error {
	for i, w := range recSlice(rec, "weapons") {
		m, _ := w.(map[string]any)
		if _, err := tx.Exec(ctx,
			`INSERT INTO character_inventory (device_id, kind, slot, name, damage_die, base_price, damaged, labyrinth_drop)
			 VALUES ($1,'weapon',$2,$3,$4,$5,$6,$7)`,
			deviceID, i, m["name"], m["damage_die"], m["base_price"], m["damaged"], m["labyrinth_drop"],
		); err != nil {
			return fmt.Errorf("insert weapon: %w", err)
		}
	}
	for i, a := range recSlice(rec, "armors") {
		m, _ := a.(map[string]any)
		if _, err := tx.Exec(ctx,
			`INSERT INTO character_inventory (device_id, kind, slot, name, armor_class, base_price, damaged, labyrinth_drop)
			 VALUES ($1,'armor',$2,$3,$4,$5,$6,$7)`,
			deviceID, i, m["name"], m["armor_class"], m["base_price"], m["damaged"], m["labyrinth_drop"],
		); err != nil {
			return fmt.Errorf("insert armor: %w", err)
		}
	}
	for i, r := range recSlice(rec, "rings") {
		m, _ := r.(map[string]any)
		if _, err := tx.Exec(ctx,
			`INSERT INTO character_inventory (device_id, kind, slot, name, ring_attribute, magnitude, penalty, cursed)
			 VALUES ($1,'ring',$2,$3,$4,$5,$6,$7)`,
			deviceID, i, m["name"], m["attribute"], m["magnitude"], m["penalty"], m["cursed"],
		); err != nil {
			return fmt.Errorf("insert ring: %w", err)
		}
	}
	return nil
}

func insertQuests(ctx context.Context, tx pgx.Tx, deviceID string, rec entity.Record) error {
	for _, q := range recSlice(rec, "active_quests") {
		m, _ := q.(map[string]any)
		if _, err := tx.Exec(ctx,
			`INSERT INTO character_quests (device_id, target, kind, goal, progress, reward_gold)
			 VALUES ($1,$2,$3,$4,$5,$6)`,
			deviceID, m["target"], m["kind"], m["goal"], m["progress"], m["reward_gold"],
		); err != nil {
			return fmt.Errorf("insert quest: %w", err)
		}
	}
	return nil
}

func (s *CharacterStore) Load(deviceID string) (entity.Record, bool, error) {
	var raw []byte
	err := s.db.Pool.QueryRow(context.Background(),
		`SELECT data FROM character_saves WHERE device_id = $1`, deviceID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load character_saves: %w", err)
	}
	var rec entity.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, false, fmt.Errorf("decode save data: %w", err)
	}
	return rec, true, nil
}

func (s *CharacterStore) Delete(deviceID string) error {
	_, err := s.db.Pool.Exec(context.Background(),
		`DELETE FROM character_saves WHERE device_id = $1`, deviceID)
	if err != nil {
		return fmt.Errorf("delete character_saves: %w", err)
	}
	return nil
}

func recString(rec entity.Record, key string) string {
	v, _ := rec[key].(string)
	return v
}

func recInt(rec entity.Record, key string) int {
	switch v := rec[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func recSlice(rec entity.Record, key string) []any {
	v, _ := rec[key].([]any)
	return v
}
