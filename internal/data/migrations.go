package data

import (
	"context"
	"database/sql"

	"github.com/pennmutual/chatquote-ui-api/internal/core"
	"github.com/pennmutual/chatquote-ui-api/internal/migrate"
)

// Compile-time checks that the repositories satisfy the core interfaces.
var (
	_ core.ChatRepository   = (*ChatRepo)(nil)
	_ core.PromptRepository = (*PromptRepo)(nil)
)

// RunMigrations executes database migrations to set up the required schema by delegating to the migrate package.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate.Run(ctx, db)
}
