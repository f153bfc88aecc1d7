package job

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"people-api/internal/domains/person"
	"people-api/pkg/logger"
)

// TypeWarmupCleanup identifies the scheduled task purging synthetic rows.
const TypeWarmupCleanup = "person:warmup_cleanup"

type WarmupCleanupHandler struct {
	personRepo person.Repository
}

func NewWarmupCleanupHandler(personRepo person.Repository) *WarmupCleanupHandler {
	return &WarmupCleanupHandler{
		personRepo: personRepo,
	}
}

// ProcessTask deletes every durable row carrying the reserved warmup
// nickname prefix. Real records are never touched: the prefix is reserved
// for the warmup collaborator.
func (h *WarmupCleanupHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	deleted, err := h.personRepo.DeleteByNicknamePrefix(ctx, person.WarmupNicknamePrefix)
	if err != nil {
		logger.Error("Warmup cleanup failed", err)
		return err
	}

	log.Info().
		Int64("rows_deleted", deleted).
		Msg("Warmup rows purged")

	return nil
}
