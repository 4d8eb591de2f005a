// Package devseed inserts starter data for local development so a fresh
// database has something to show in the UI. Production never calls this.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pennmutual/chatquote-ui-api/internal/data"
	"github.com/pennmutual/chatquote-ui-api/internal/domain/model"
	apperrors "github.com/pennmutual/chatquote-ui-api/internal/errors"
	"github.com/pennmutual/chatquote-ui-api/internal/service"
)

// defaultPrompts are the starter templates seeded into an empty prompt library.
var defaultPrompts = []model.CreatePromptRequest{
	{
		PromptName: "Quote summary",
		Query:      "Summarize the current quote, including product, face amount, and riders.",
	},
	{
		PromptName: "Rider comparison",
		Query:      "Compare the available riders for this product and explain when each applies.",
	},
	{
		PromptName: "Premium breakdown",
		Query:      "Break down the premium for this quote by base coverage and each rider.",
	},
}

// Run seeds the prompt library when it is empty. Seeding is idempotent:
// an already-populated library is left untouched, and a concurrent seeder
// losing the unique-name race is not an error.
func Run(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	prompts := service.NewPromptService(service.PromptServiceOptions{
		PromptRepo: data.NewPromptRepo(db),
	})

	existing, err := prompts.List(ctx)
	if err != nil {
		return fmt.Errorf("list prompts: %w", err)
	}
	if len(existing) > 0 {
		logger.InfoContext(ctx, "dev seed skipped", "reason", "prompts already present", "count", len(existing))
		return nil
	}

	seeded := 0
	for i := range defaultPrompts {
		req := defaultPrompts[i]
		if _, createErr := prompts.Create(ctx, &req); createErr != nil {
			if apperrors.IsConflict(createErr) {
				continue
			}
			return fmt.Errorf("seed prompt %q: %w", req.PromptName, createErr)
		}
		seeded++
	}

	logger.InfoContext(ctx, "dev seed completed", "prompts_seeded", seeded)
	return nil
}
