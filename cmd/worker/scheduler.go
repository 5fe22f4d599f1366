package main

import (
	"github.com/hibiken/asynq"

	"pagecraft-backend/internal/shared"
	"pagecraft-backend/pkg/container"
	"pagecraft-backend/pkg/logger"
)

type asynqScheduler struct {
	*asynq.Scheduler
}

// setupScheduler registers the recurring maintenance jobs: the nightly
// purge of soft-deleted works and the hourly hot template refresh.
func setupScheduler(c *container.Container) *asynqScheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     c.Config.Redis.Host,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		},
		nil,
	)

	entries := []struct {
		cronspec string
		task     *asynq.Task
		opts     []asynq.Option
	}{
		{
			cronspec: "0 3 * * *",
			task:     asynq.NewTask(shared.TypePurgeDeletedWorks, []byte("{}")),
			opts:     []asynq.Option{asynq.Queue("low"), asynq.MaxRetry(3)},
		},
		{
			cronspec: "0 * * * *",
			task:     asynq.NewTask(shared.TypeRefreshHotFlags, nil),
			opts:     []asynq.Option{asynq.Queue("low"), asynq.MaxRetry(1)},
		},
	}

	for _, e := range entries {
		entryID, err := scheduler.Register(e.cronspec, e.task, e.opts...)
		if err != nil {
			logger.Fatal("scheduler registration failed: "+e.task.Type(), err)
		}
		logger.Info("scheduled job", map[string]interface{}{
			"task":     e.task.Type(),
			"cron":     e.cronspec,
			"entry_id": entryID,
		})
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Fatal("scheduler failed", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	s.Scheduler.Shutdown()
}
