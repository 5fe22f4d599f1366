package service

import (
	"context"
	"fmt"

	"pagecraft-backend/internal/domains/work/model"
	"pagecraft-backend/internal/domains/work/repository"
	"pagecraft-backend/pkg/logger"
	"pagecraft-backend/pkg/shortid"
)

type channelService struct {
	repo repository.WorkRepository
}

func NewChannelService(repo repository.WorkRepository) ChannelService {
	return &channelService{repo: repo}
}

// Create appends a fresh channel. The duplicate check against the loaded
// snapshot gives the caller a precise error; the repository predicate
// re-asserts uniqueness at write time, so a concurrent create with the
// same name cannot slip through. The loser gets ErrChannelOperateFailed.
func (s *channelService) Create(ctx context.Context, req *model.CreateChannelReq) (*model.Channel, error) {
	w, err := s.repo.GetByID(ctx, req.WorkID)
	if err != nil {
		return nil, err
	}
	if w.HasChannelName(req.Name) {
		return nil, model.ErrChannelDuplicate
	}

	channelID, err := shortid.NewChannelID()
	if err != nil {
		return nil, fmt.Errorf("generate channel id: %w", err)
	}

	ch := model.Channel{ID: channelID, Name: req.Name}
	if err := s.repo.CreateChannel(ctx, req.WorkID, ch); err != nil {
		return nil, err
	}

	logger.Info("channel created", map[string]interface{}{
		"workId":    req.WorkID,
		"channelId": ch.ID,
	})
	return &ch, nil
}

func (s *channelService) Rename(ctx context.Context, req *model.UpdateChannelReq) error {
	w, err := s.repo.GetByID(ctx, req.WorkID)
	if err != nil {
		return err
	}
	if _, ok := w.ChannelByID(req.ChannelID); !ok {
		return model.ErrChannelOperateFailed
	}
	if w.HasChannelName(req.Name) {
		return model.ErrChannelDuplicate
	}

	return s.repo.RenameChannel(ctx, req.WorkID, req.ChannelID, req.Name)
}

func (s *channelService) Delete(ctx context.Context, req *model.DeleteChannelReq) error {
	w, err := s.repo.GetByID(ctx, req.WorkID)
	if err != nil {
		return err
	}
	if _, ok := w.ChannelByID(req.ChannelID); !ok {
		return model.ErrChannelOperateFailed
	}
	// Every work keeps at least one channel; the repository predicate
	// enforces the same floor under concurrency.
	if len(w.Channels) <= 1 {
		return model.ErrChannelLastOne
	}

	return s.repo.DeleteChannel(ctx, req.WorkID, req.ChannelID)
}
