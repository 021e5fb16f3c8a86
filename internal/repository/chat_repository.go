package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/rag-chat-service/internal/domain"
)

// ChatRepository defines persistence access for chats, sessions and messages.
type ChatRepository interface {
	CreateChat(ctx context.Context, chat *domain.Chat) error
	GetChatByID(ctx context.Context, id string) (*domain.Chat, error)
	ListChatsByTenant(ctx context.Context, tenantID string) ([]*domain.Chat, error)
	UpdateChat(ctx context.Context, chat *domain.Chat) error
	DeleteChatCascade(ctx context.Context, id string) error
	CountSessions(ctx context.Context, chatID string) (int64, error)

	CreateSession(ctx context.Context, session *domain.ChatSession) error
	GetSessionByID(ctx context.Context, id string) (*domain.ChatSession, error)
	ListSessionsByUser(ctx context.Context, chatID, userID string) ([]*domain.ChatSession, error)
	DeleteSessionCascade(ctx context.Context, id string) error
	TouchSession(ctx context.Context, id string) error

	CreateMessage(ctx context.Context, message *domain.ChatMessage) error
	ListMessages(ctx context.Context, sessionID string, offset, limit int) ([]*domain.ChatMessage, error)
}

type chatRepository struct {
	pool *pgxpool.Pool
}

// NewChatRepository returns a Postgres-backed implementation.
func NewChatRepository(pool *pgxpool.Pool) ChatRepository {
	return &chatRepository{pool: pool}
}

func (r *chatRepository) CreateChat(ctx context.Context, chat *domain.Chat) error {
	const query = `
        INSERT INTO chats (name, system_prompt, tenant_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query, chat.Name, chat.SystemPrompt, chat.TenantID).
		Scan(&chat.ID, &chat.CreatedAt, &chat.UpdatedAt)
}

func (r *chatRepository) GetChatByID(ctx context.Context, id string) (*domain.Chat, error) {
	const query = `SELECT id, name, system_prompt, tenant_id, created_at, updated_at
        FROM chats WHERE id=$1`
	return scanChat(r.pool.QueryRow(ctx, query, id))
}

func (r *chatRepository) ListChatsByTenant(ctx context.Context, tenantID string) ([]*domain.Chat, error) {
	const query = `SELECT id, name, system_prompt, tenant_id, created_at, updated_at
        FROM chats WHERE tenant_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []*domain.Chat
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

func (r *chatRepository) UpdateChat(ctx context.Context, chat *domain.Chat) error {
	const query = `UPDATE chats SET name=$1, system_prompt=$2, updated_at=NOW() WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, chat.Name, chat.SystemPrompt, chat.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *chatRepository) DeleteChatCascade(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx,
		`DELETE FROM messages WHERE session_id IN (SELECT id FROM sessions WHERE chat_id=$1)`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE chat_id=$1`, id); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM chats WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

func (r *chatRepository) CountSessions(ctx context.Context, chatID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sessions WHERE chat_id=$1`, chatID).Scan(&count)
	return count, err
}

func (r *chatRepository) CreateSession(ctx context.Context, session *domain.ChatSession) error {
	const query = `
        INSERT INTO sessions (title, user_id, chat_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query, session.Title, session.UserID, session.ChatID).
		Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
}

func (r *chatRepository) GetSessionByID(ctx context.Context, id string) (*domain.ChatSession, error) {
	const query = `SELECT id, title, user_id, chat_id, created_at, updated_at
        FROM sessions WHERE id=$1`

	var session domain.ChatSession
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.Title,
		&session.UserID,
		&session.ChatID,
		&session.CreatedAt,
		&session.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *chatRepository) ListSessionsByUser(ctx context.Context, chatID, userID string) ([]*domain.ChatSession, error) {
	const query = `SELECT id, title, user_id, chat_id, created_at, updated_at
        FROM sessions WHERE chat_id=$1 AND user_id=$2 ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, chatID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.ChatSession
	for rows.Next() {
		var session domain.ChatSession
		if err := rows.Scan(
			&session.ID,
			&session.Title,
			&session.UserID,
			&session.ChatID,
			&session.CreatedAt,
			&session.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, &session)
	}
	return sessions, rows.Err()
}

func (r *chatRepository) DeleteSessionCascade(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE session_id=$1`, id); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM sessions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

func (r *chatRepository) TouchSession(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE sessions SET updated_at=NOW() WHERE id=$1`, id)
	return err
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *domain.ChatMessage) error {
	const query = `
        INSERT INTO messages (session_id, content, role)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query, message.SessionID, message.Content, message.Role).
		Scan(&message.ID, &message.CreatedAt)
}

func (r *chatRepository) ListMessages(ctx context.Context, sessionID string, offset, limit int) ([]*domain.ChatMessage, error) {
	const query = `SELECT id, session_id, content, role, created_at
        FROM messages WHERE session_id=$1 ORDER BY created_at ASC OFFSET $2 LIMIT $3`

	rows, err := r.pool.Query(ctx, query, sessionID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		var message domain.ChatMessage
		if err := rows.Scan(
			&message.ID,
			&message.SessionID,
			&message.Content,
			&message.Role,
			&message.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, &message)
	}
	return messages, rows.Err()
}

func scanChat(row pgx.Row) (*domain.Chat, error) {
	var chat domain.Chat
	if err := row.Scan(
		&chat.ID,
		&chat.Name,
		&chat.SystemPrompt,
		&chat.TenantID,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &chat, nil
}
