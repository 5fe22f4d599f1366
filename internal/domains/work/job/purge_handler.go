package job

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"pagecraft-backend/internal/domains/work/repository"
	"pagecraft-backend/pkg/logger"
)

// PurgeDeletedPayload optionally pins the purge reference time. A zero
// Date means "now", which is what the scheduled run sends.
type PurgeDeletedPayload struct {
	Date time.Time `json:"date,omitempty"`
}

// PurgeDeletedHandler permanently removes works that have been in the
// deleted state longer than the retention window. Soft delete hides a
// work immediately; this job is the only place rows actually go away.
type PurgeDeletedHandler struct {
	repo          repository.WorkRepository
	retentionDays int
}

func NewPurgeDeletedHandler(repo repository.WorkRepository, retentionDays int) *PurgeDeletedHandler {
	return &PurgeDeletedHandler{repo: repo, retentionDays: retentionDays}
}

func (h *PurgeDeletedHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload PurgeDeletedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("purge job: bad payload", err)
		return err
	}

	ref := time.Now()
	if !payload.Date.IsZero() {
		ref = payload.Date
	}
	cutoff := ref.AddDate(0, 0, -h.retentionDays)

	purged, err := h.repo.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		logger.Error("purge job: purge failed", err)
		return err
	}

	log.Info().
		Time("cutoff", cutoff).
		Int64("purged", purged).
		Msg("Purged deleted works")
	return nil
}
