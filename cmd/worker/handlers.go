package main

import (
	"github.com/hibiken/asynq"

	workJob "pagecraft-backend/internal/domains/work/job"
	"pagecraft-backend/internal/shared"
	"pagecraft-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	purgeDeleted *workJob.PurgeDeletedHandler
	refreshHot   *workJob.RefreshHotHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		purgeDeleted: workJob.NewPurgeDeletedHandler(c.WorkRepo, c.Config.Worker.DeletedRetentionDays),
		refreshHot:   workJob.NewRefreshHotHandler(c.WorkRepo, c.Config.Worker.HotTemplateCount),
	}
}

func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypePurgeDeletedWorks, h.purgeDeleted.ProcessTask)
	mux.HandleFunc(shared.TypeRefreshHotFlags, h.refreshHot.ProcessTask)
}
