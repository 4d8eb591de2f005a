package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pennmutual/chatquote-ui-api/internal/data/pgxutil"
	"github.com/pennmutual/chatquote-ui-api/internal/domain/model"
	apperrors "github.com/pennmutual/chatquote-ui-api/internal/errors"
)

// ChatRepo provides database operations for saved chats.
type ChatRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewChatRepo creates a new ChatRepo with real time provider.
func NewChatRepo(db *sql.DB) *ChatRepo {
	return &ChatRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewChatRepoWithTimeProvider creates a new ChatRepo with a custom time provider (useful for tests).
func NewChatRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ChatRepo {
	return &ChatRepo{DB: db, timeProvider: tp}
}

// SQL query constants for static queries (no dynamic WHERE/ORDER BY).
const (
	chatGetByIDQuery = `
		SELECT id, username, name, conversation, created_at, updated_at
		FROM chats
		WHERE id = $1`

	chatListByUsernameQuery = `
		SELECT id, username, name, conversation, created_at, updated_at
		FROM chats
		WHERE username = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3`
)

// Create inserts a new chat owned by the given user.
func (r *ChatRepo) Create(ctx context.Context, username string, req *model.CreateChatRequest) (*model.Chat, error) {
	if req == nil {
		return nil, errors.New("create chat request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	conversation := req.Conversation
	if conversation == nil {
		conversation = []model.ConversationEntry{}
	}

	now := r.timeProvider.Now().UTC()
	var out model.Chat
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO chats (username, name, conversation, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
			RETURNING id, username, name, conversation, created_at, updated_at`,
			username,
			strings.TrimSpace(req.Name),
			conversation,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Chat])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a chat by ID.
func (r *ChatRepo) GetByID(ctx context.Context, id string) (*model.Chat, error) {
	var chat model.Chat
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, chatGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		chat, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Chat])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &chat, nil
}

// ListByUsername retrieves a user's chats, most recently updated first.
func (r *ChatRepo) ListByUsername(ctx context.Context, username string, opts model.ChatsListOptions) ([]*model.Chat, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	var rowsOut []model.Chat
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, chatListByUsernameQuery, username, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Chat])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}

	res := make([]*model.Chat, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a chat. updated_at always moves forward so the
// list ordering reflects activity.
func (r *ChatRepo) Update(ctx context.Context, id string, req model.UpdateChatRequest) (*model.Chat, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setClause, args := r.buildUpdateClause(req)
	args = append(args, id)
	query := "UPDATE chats SET " + setClause + " WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING id, username, name, conversation, created_at, updated_at"

	var out model.Chat
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Chat])
		return e
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// buildUpdateClause builds the SQL SET clause and args for updating a chat.
// The request has already been validated, so at least one field is set.
func (r *ChatRepo) buildUpdateClause(req model.UpdateChatRequest) (string, []any) {
	setParts := make([]string, 0, 3)
	args := make([]any, 0, 4)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Conversation != nil {
		setParts = append(setParts, fmt.Sprintf("conversation = $%d", nextIdx()))
		args = append(args, req.Conversation)
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	return strings.Join(setParts, ", "), args
}

// Delete deletes a chat by ID.
func (r *ChatRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM chats WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete chat: %w", err)
	}
	return rows > 0, nil
}
