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

// PromptRepo provides database operations for the shared prompt library.
type PromptRepo struct {
	DB *sql.DB
}

// NewPromptRepo creates a new PromptRepo.
func NewPromptRepo(db *sql.DB) *PromptRepo {
	return &PromptRepo{DB: db}
}

const (
	promptGetByIDQuery = `
		SELECT id, prompt_name, query
		FROM prompts
		WHERE id = $1`

	promptListQuery = `
		SELECT id, prompt_name, query
		FROM prompts
		ORDER BY prompt_name ASC`
)

// Create inserts a new prompt. Prompt names are unique across the library.
func (r *PromptRepo) Create(ctx context.Context, req *model.CreatePromptRequest) (*model.Prompt, error) {
	if req == nil {
		return nil, errors.New("create prompt request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Prompt
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO prompts (prompt_name, query)
			VALUES ($1, $2)
			RETURNING id, prompt_name, query`,
			strings.TrimSpace(req.PromptName),
			req.Query,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Prompt])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a prompt by ID.
func (r *PromptRepo) GetByID(ctx context.Context, id string) (*model.Prompt, error) {
	var prompt model.Prompt
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, promptGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		prompt, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Prompt])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &prompt, nil
}

// List retrieves all prompts ordered by name.
func (r *PromptRepo) List(ctx context.Context) ([]*model.Prompt, error) {
	var rowsOut []model.Prompt
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, promptListQuery)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Prompt])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}

	res := make([]*model.Prompt, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a prompt.
func (r *PromptRepo) Update(ctx context.Context, id string, req model.UpdatePromptRequest) (*model.Prompt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setParts := make([]string, 0, 2)
	args := make([]any, 0, 3)
	nextIdx := func() int { return len(args) + 1 }
	if req.PromptName != nil {
		setParts = append(setParts, fmt.Sprintf("prompt_name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.PromptName))
	}
	if req.Query != nil {
		setParts = append(setParts, fmt.Sprintf("query = $%d", nextIdx()))
		args = append(args, *req.Query)
	}
	args = append(args, id)
	query := "UPDATE prompts SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING id, prompt_name, query"

	var out model.Prompt
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Prompt])
		return e
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Delete deletes a prompt by ID.
func (r *PromptRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM prompts WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete prompt: %w", err)
	}
	return rows > 0, nil
}
