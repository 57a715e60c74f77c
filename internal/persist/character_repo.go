package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MaxCharactersPerPlayer caps the character list length per account.
const MaxCharactersPerPlayer = 8

var (
	ErrCharacterLimit   = errors.New("character limit reached")
	ErrCharacterMissing = errors.New("character not found")
)

// Body is a character's appearance row.
type Body struct {
	Race      int16
	BodyType  int16
	HairStyle int16
	Beard     int16
	Eyebrows  int16
	Accessory int16
	HairColor int16
	Skin      int16
	EyeColor  int16
}

// Stats is a character's progression row.
type Stats struct {
	Level     int32
	Exp       int32
	Endurance int32
	Fitness   int32
	Willpower int32
}

// Character is one fully joined character record.
type Character struct {
	ID    int64
	Alias string
	Tool  string
	Body  Body
	Stats Stats

	// Waypoint is the saved respawn point, nil until the character has one.
	Waypoint *[3]float32
}

// CharacterRepo handles character rows and their body/stats satellites.
type CharacterRepo struct {
	pool *pgxpool.Pool
}

func NewCharacterRepo(pool *pgxpool.Pool) *CharacterRepo {
	return &CharacterRepo{pool: pool}
}

const characterColumns = `
	c.id, c.alias, COALESCE(c.tool, ''),
	c.waypoint_x, c.waypoint_y, c.waypoint_z,
	b.race, b.body_type, b.hair_style, b.beard, b.eyebrows,
	b.accessory, b.hair_color, b.skin, b.eye_color,
	s.level, s.exp, s.endurance, s.fitness, s.willpower`

func scanCharacter(row pgx.Row) (Character, error) {
	var (
		ch         Character
		wx, wy, wz *float32
	)
	err := row.Scan(
		&ch.ID, &ch.Alias, &ch.Tool,
		&wx, &wy, &wz,
		&ch.Body.Race, &ch.Body.BodyType, &ch.Body.HairStyle, &ch.Body.Beard,
		&ch.Body.Eyebrows, &ch.Body.Accessory, &ch.Body.HairColor, &ch.Body.Skin,
		&ch.Body.EyeColor,
		&ch.Stats.Level, &ch.Stats.Exp, &ch.Stats.Endurance, &ch.Stats.Fitness,
		&ch.Stats.Willpower,
	)
	if err != nil {
		return Character{}, err
	}
	if wx != nil && wy != nil && wz != nil {
		ch.Waypoint = &[3]float32{*wx, *wy, *wz}
	}
	return ch, nil
}

// List returns the account's characters, newest first.
func (r *CharacterRepo) List(ctx context.Context, accountID int64) ([]Character, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+characterColumns+`
		FROM characters c
		JOIN bodies b ON b.character_id = c.id
		JOIN stats s  ON s.character_id = c.id
		WHERE c.account_id = $1
		ORDER BY c.created_at DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list characters for account %d: %w", accountID, err)
	}
	defer rows.Close()

	var out []Character
	for rows.Next() {
		ch, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan character row: %w", err)
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

// Get loads one character belonging to the account.
func (r *CharacterRepo) Get(ctx context.Context, accountID, characterID int64) (Character, error) {
	ch, err := scanCharacter(r.pool.QueryRow(ctx, `
		SELECT `+characterColumns+`
		FROM characters c
		JOIN bodies b ON b.character_id = c.id
		JOIN stats s  ON s.character_id = c.id
		WHERE c.id = $1 AND c.account_id = $2`, characterID, accountID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Character{}, ErrCharacterMissing
	}
	if err != nil {
		return Character{}, fmt.Errorf("load character %d: %w", characterID, err)
	}
	return ch, nil
}

// Create inserts a character with its body and default stats in one
// transaction. Fails with ErrCharacterLimit once the account is full.
func (r *CharacterRepo) Create(ctx context.Context, accountID int64, alias, tool string, body Body) (Character, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Character{}, fmt.Errorf("begin character create: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx,
		`SELECT count(*) FROM characters WHERE account_id = $1`, accountID,
	).Scan(&count); err != nil {
		return Character{}, fmt.Errorf("count characters: %w", err)
	}
	if count >= MaxCharactersPerPlayer {
		return Character{}, ErrCharacterLimit
	}

	var id int64
	if err := tx.QueryRow(ctx,
		`INSERT INTO characters (account_id, alias, tool) VALUES ($1, $2, NULLIF($3, ''))
		 RETURNING id`,
		accountID, alias, tool,
	).Scan(&id); err != nil {
		return Character{}, fmt.Errorf("insert character %q: %w", alias, err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO bodies (character_id, race, body_type, hair_style, beard,
		                    eyebrows, accessory, hair_color, skin, eye_color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, body.Race, body.BodyType, body.HairStyle, body.Beard,
		body.Eyebrows, body.Accessory, body.HairColor, body.Skin, body.EyeColor,
	); err != nil {
		return Character{}, fmt.Errorf("insert body for %q: %w", alias, err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO stats (character_id) VALUES ($1)`, id,
	); err != nil {
		return Character{}, fmt.Errorf("insert stats for %q: %w", alias, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Character{}, fmt.Errorf("commit character create: %w", err)
	}

	return Character{
		ID:    id,
		Alias: alias,
		Tool:  tool,
		Body:  body,
		Stats: Stats{Level: 1},
	}, nil
}

// Delete removes the character if it belongs to the account. Satellites go
// via cascade.
func (r *CharacterRepo) Delete(ctx context.Context, accountID, characterID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM characters WHERE id = $1 AND account_id = $2`,
		characterID, accountID)
	if err != nil {
		return fmt.Errorf("delete character %d: %w", characterID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterMissing
	}
	return nil
}

// SaveWaypoint persists the character's respawn point, keyed by alias since
// that is what the live entity carries.
func (r *CharacterRepo) SaveWaypoint(ctx context.Context, alias string, x, y, z float32) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE characters SET waypoint_x = $2, waypoint_y = $3, waypoint_z = $4
		 WHERE alias = $1`,
		alias, x, y, z)
	if err != nil {
		return fmt.Errorf("save waypoint for %q: %w", alias, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterMissing
	}
	return nil
}
