package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Earthondev/guessing-game-earth-sub000/internal/game"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func parseDBTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func (s *SQLiteStore) ListCategories(ctx context.Context) ([]game.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, display_name, description, icon, cover_image, created_at
		FROM categories
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []game.Category
	for rows.Next() {
		var c game.Category
		var createdAt string
		if err := rows.Scan(&c.Name, &c.DisplayName, &c.Description, &c.Icon, &c.CoverImage, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt = parseDBTime(createdAt)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s *SQLiteStore) GetCategory(ctx context.Context, name string) (game.Category, error) {
	var c game.Category
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT name, display_name, description, icon, cover_image, created_at
		FROM categories WHERE name = ?
	`, name).Scan(&c.Name, &c.DisplayName, &c.Description, &c.Icon, &c.CoverImage, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	c.CreatedAt = parseDBTime(createdAt)
	return c, err
}

func (s *SQLiteStore) CreateCategory(ctx context.Context, c game.Category) (game.Category, error) {
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, display_name, description, icon, cover_image)
		VALUES (?, ?, ?, ?, ?)
		RETURNING created_at
	`, c.Name, c.DisplayName, c.Description, c.Icon, c.CoverImage).Scan(&createdAt)
	if err != nil {
		return game.Category{}, err
	}
	c.CreatedAt = parseDBTime(createdAt)
	return c, nil
}

func (s *SQLiteStore) UpdateCategory(ctx context.Context, c game.Category) (game.Category, error) {
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		UPDATE categories SET display_name = ?, description = ?, icon = ?, cover_image = ?
		WHERE name = ?
		RETURNING created_at
	`, c.DisplayName, c.Description, c.Icon, c.CoverImage, c.Name).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Category{}, ErrNotFound
	}
	if err != nil {
		return game.Category{}, err
	}
	c.CreatedAt = parseDBTime(createdAt)
	return c, nil
}

func (s *SQLiteStore) DeleteCategory(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanImage(scan func(dest ...any) error) (game.ImageItem, error) {
	var it game.ImageItem
	var reveal sql.NullString
	var accepted, createdAt string
	err := scan(&it.ID, &it.Category, &it.DisplayImage, &reveal, &it.Answer, &accepted, &createdAt)
	if err != nil {
		return it, err
	}
	if reveal.Valid {
		it.RevealImage = reveal.String
	}
	json.Unmarshal([]byte(accepted), &it.AcceptedAnswers)
	it.CreatedAt = parseDBTime(createdAt)
	return it, nil
}

func (s *SQLiteStore) ListImages(ctx context.Context, category string) ([]game.ImageItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, display_image, reveal_image, answer, accepted_answers, created_at
		FROM images WHERE category = ?
		ORDER BY created_at
	`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []game.ImageItem
	for rows.Next() {
		it, err := scanImage(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) GetImage(ctx context.Context, id string) (game.ImageItem, error) {
	it, err := scanImage(s.db.QueryRowContext(ctx, `
		SELECT id, category, display_image, reveal_image, answer, accepted_answers, created_at
		FROM images WHERE id = ?
	`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return it, ErrNotFound
	}
	return it, err
}

func (s *SQLiteStore) CreateImage(ctx context.Context, it game.ImageItem) (game.ImageItem, error) {
	accepted, _ := json.Marshal(it.AcceptedAnswers)

	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO images (id, category, display_image, reveal_image, answer, accepted_answers)
		VALUES (?, ?, ?, NULLIF(?, ''), ?, ?)
		RETURNING created_at
	`, it.ID, it.Category, it.DisplayImage, it.RevealImage, it.Answer, string(accepted)).Scan(&createdAt)
	if err != nil {
		return game.ImageItem{}, err
	}
	it.CreatedAt = parseDBTime(createdAt)
	return it, nil
}

func (s *SQLiteStore) UpdateImage(ctx context.Context, it game.ImageItem) (game.ImageItem, error) {
	accepted, _ := json.Marshal(it.AcceptedAnswers)

	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		UPDATE images SET category = ?, answer = ?, accepted_answers = ?
		WHERE id = ?
		RETURNING created_at
	`, it.Category, it.Answer, string(accepted), it.ID).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return game.ImageItem{}, ErrNotFound
	}
	if err != nil {
		return game.ImageItem{}, err
	}
	it.CreatedAt = parseDBTime(createdAt)
	return it, nil
}

func (s *SQLiteStore) DeleteImage(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) SubmitScore(ctx context.Context, e game.LeaderboardEntry) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO scores (id, player_name, score, category, total_questions)
		VALUES (lower(hex(randomblob(16))), ?, ?, ?, ?)
		RETURNING id
	`, e.PlayerName, e.Score, e.Category, e.TotalQuestions).Scan(&id)
	return id, err
}

func (s *SQLiteStore) ListScores(ctx context.Context, category string, limit int) ([]game.LeaderboardEntry, error) {
	if limit <= 0 || limit > scoreFetchLimit {
		limit = scoreFetchLimit
	}

	// Fetch order is the leaderboard tie-break, so keep it deterministic.
	query := `
		SELECT id, player_name, score, category, total_questions, created_at
		FROM scores
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`
	args := []any{limit}
	if category != "" {
		query = `
			SELECT id, player_name, score, category, total_questions, created_at
			FROM scores
			WHERE category = ?
			ORDER BY created_at DESC, rowid DESC
			LIMIT ?
		`
		args = []any{category, limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []game.LeaderboardEntry
	for rows.Next() {
		var e game.LeaderboardEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.PlayerName, &e.Score, &e.Category, &e.TotalQuestions, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = parseDBTime(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}

func (s *SQLiteStore) CreateAdmin(ctx context.Context, email, passwordHash string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO admins (id, email, password_hash)
		VALUES (lower(hex(randomblob(16))), ?, ?)
		RETURNING id
	`, email, passwordHash).Scan(&id)
	return id, err
}

func (s *SQLiteStore) AdminByEmail(ctx context.Context, email string) (string, string, error) {
	var adminID, passwordHash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM admins WHERE email = ?
	`, email).Scan(&adminID, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return adminID, passwordHash, err
}

func (s *SQLiteStore) CreateAdminSession(ctx context.Context, adminID string) (string, error) {
	var sessionID string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO admin_sessions (admin_id)
		VALUES (?)
		RETURNING id
	`, adminID).Scan(&sessionID)
	return sessionID, err
}

func (s *SQLiteStore) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, sessionID)
	return err
}

func (s *SQLiteStore) AdminFromSession(ctx context.Context, sessionID string) (adminSession, error) {
	var sess adminSession
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.email
		FROM admin_sessions s
		JOIN admins a ON a.id = s.admin_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.AdminID, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, errNoAdminSession
	}
	return sess, err
}
