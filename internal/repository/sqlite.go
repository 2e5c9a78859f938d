package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/xiaot623/gogo/guruchat/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS characters (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			persona_data TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS session_characters (
			session_id TEXT NOT NULL,
			character_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (session_id, character_id),
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE,
			FOREIGN KEY (character_id) REFERENCES characters(id)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			role TEXT,
			content TEXT,
			character_id TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE,
			FOREIGN KEY (character_id) REFERENCES characters(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession creates a new session with its characters in the given order.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session, characterIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, title, created_at) VALUES (?, ?, ?, ?)`,
		session.ID, session.UserID, session.Title, session.CreatedAt); err != nil {
		return err
	}
	for i, characterID := range characterIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO session_characters (session_id, character_id, position) VALUES (?, ?, ?)`,
			session.ID, characterID, i); err != nil {
			return fmt.Errorf("failed to add character %s: %w", characterID, err)
		}
	}
	return tx.Commit()
}

// GetSession retrieves a session and its characters ordered by position.
// Returns nil, nil if the session does not exist.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, created_at FROM sessions WHERE id = ?`,
		sessionID).Scan(&session.ID, &session.UserID, &session.Title, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	characters, err := s.sessionCharacters(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	session.Characters = characters
	return &session, nil
}

func (s *SQLiteStore) sessionCharacters(ctx context.Context, sessionID string) ([]domain.Character, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.name, c.description, c.persona_data, c.created_at
		 FROM session_characters sc JOIN characters c ON c.id = sc.character_id
		 WHERE sc.session_id = ? ORDER BY sc.position ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var characters []domain.Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		characters = append(characters, *c)
	}
	return characters, rows.Err()
}

// ListSessions lists the sessions owned by a user, newest first.
func (s *SQLiteStore) ListSessions(ctx context.Context, userID string) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, created_at FROM sessions WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}

	var sessions []domain.Session
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(&session.ID, &session.UserID, &session.Title, &session.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		sessions = append(sessions, session)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Characters are loaded after the cursor is closed; in-memory databases
	// only have one connection.
	for i := range sessions {
		characters, err := s.sessionCharacters(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Characters = characters
	}
	return sessions, nil
}

// UpdateSessionTitle renames a session.
func (s *SQLiteStore) UpdateSessionTitle(ctx context.Context, sessionID, title string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE sessions SET title = ? WHERE id = ?`, title, sessionID)
	return err
}

// DeleteSession removes a session with its messages and cast.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM messages WHERE session_id = ?`,
		`DELETE FROM session_characters WHERE session_id = ?`,
		`DELETE FROM sessions WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, sessionID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AppendMessage stores a message and returns its id.
func (s *SQLiteStore) AppendMessage(ctx context.Context, message *domain.Message) (int64, error) {
	createdAt := message.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, character_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		message.SessionID, message.Role, message.Content, nullString(message.CharacterID), createdAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetMessages retrieves the messages of a session in insertion order.
func (s *SQLiteStore) GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.id, m.session_id, m.role, m.content, m.character_id, m.created_at, c.name, c.description
		 FROM messages m LEFT JOIN characters c ON c.id = m.character_id
		 WHERE m.session_id = ? ORDER BY m.id ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var role, content, characterID, name, description sql.NullString
		if err := rows.Scan(&msg.ID, &msg.SessionID, &role, &content, &characterID, &msg.CreatedAt, &name, &description); err != nil {
			return nil, err
		}
		msg.Role = role.String
		msg.Content = content.String
		if characterID.Valid {
			msg.CharacterID = characterID.String
			if name.Valid {
				msg.Character = &domain.CharacterSummary{
					ID:          characterID.String,
					Name:        name.String,
					Description: description.String,
				}
			}
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// UpsertCharacter inserts a character or updates the existing row with the same id.
func (s *SQLiteStore) UpsertCharacter(ctx context.Context, character *domain.Character) (bool, error) {
	existing, err := s.GetCharacter(ctx, character.ID)
	if err != nil {
		return false, err
	}
	persona := nullStringBytes(character.PersonaData)
	if existing != nil {
		_, err := s.db.ExecContext(ctx,
			`UPDATE characters SET name = ?, description = ?, persona_data = ? WHERE id = ?`,
			character.Name, character.Description, persona, character.ID)
		return false, err
	}

	createdAt := character.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO characters (id, name, description, persona_data, created_at) VALUES (?, ?, ?, ?, ?)`,
		character.ID, character.Name, character.Description, persona, createdAt)
	return err == nil, err
}

// GetCharacter retrieves a character by ID. Returns nil, nil if absent.
func (s *SQLiteStore) GetCharacter(ctx context.Context, characterID string) (*domain.Character, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, persona_data, created_at FROM characters WHERE id = ?`,
		characterID)
	c, err := scanCharacter(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// ListCharacters lists all characters by name.
func (s *SQLiteStore) ListCharacters(ctx context.Context) ([]domain.Character, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, persona_data, created_at FROM characters ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var characters []domain.Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		characters = append(characters, *c)
	}
	return characters, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row scanner) (*domain.Character, error) {
	var c domain.Character
	var description, persona sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &description, &persona, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Description = description.String
	if persona.Valid {
		c.PersonaData = json.RawMessage(persona.String)
	}
	return &c, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullStringBytes(b []byte) sql.NullString {
	if len(b) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}
