package job

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"pagecraft-backend/internal/domains/work/repository"
	"pagecraft-backend/pkg/logger"
)

// RefreshHotHandler recomputes the is_hot flag over the template pool:
// the top N templates by copy count are hot, everything else is not.
// It takes no payload; the count comes from configuration.
type RefreshHotHandler struct {
	repo repository.WorkRepository
	topN int
}

func NewRefreshHotHandler(repo repository.WorkRepository, topN int) *RefreshHotHandler {
	return &RefreshHotHandler{repo: repo, topN: topN}
}

func (h *RefreshHotHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	if err := h.repo.RefreshHotFlags(ctx, h.topN); err != nil {
		logger.Error("hot flags job: refresh failed", err)
		return err
	}

	log.Info().
		Int("top_n", h.topN).
		Msg("Refreshed hot template flags")
	return nil
}
