package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pagecraft-backend/internal/domains/work/model"
	"pagecraft-backend/internal/domains/work/repository"
	"pagecraft-backend/internal/shared"
	"pagecraft-backend/pkg/cache"
	"pagecraft-backend/pkg/logger"
	"pagecraft-backend/pkg/shortid"
)

type workService struct {
	repo  repository.WorkRepository
	cache cache.Cache
}

func NewWorkService(repo repository.WorkRepository, c cache.Cache) WorkService {
	return &workService{repo: repo, cache: c}
}

func (s *workService) Create(ctx context.Context, p shared.Principal, req *model.CreateWorkReq) (*model.Work, error) {
	workUUID, err := shortid.NewWorkUUID()
	if err != nil {
		return nil, fmt.Errorf("generate work uuid: %w", err)
	}

	w := &model.Work{
		UUID:     workUUID,
		Title:    req.Title,
		Desc:     req.Desc,
		CoverImg: req.CoverImg,
		Content:  req.Content,
		Status:   model.StatusInitial,
		UserID:   p.ID,
		Author:   p.Username,
		Channels: []model.Channel{},
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, err
	}

	logger.Info("work created", map[string]interface{}{
		"workId": w.ID,
		"userId": p.ID.String(),
	})
	return w, nil
}

func (s *workService) Detail(ctx context.Context, id int64) (*model.Work, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *workService) Update(ctx context.Context, id int64, req *model.UpdateWorkReq) (*model.Work, error) {
	if req.IsEmpty() {
		// Nothing to change; still apply the not-found-if-deleted rule.
		return s.repo.GetByID(ctx, id)
	}

	w, err := s.repo.UpdateFields(ctx, id, req.Patch())
	if err != nil {
		return nil, err
	}

	s.invalidateRender(ctx, w)
	return w, nil
}

func (s *workService) Publish(ctx context.Context, id int64) (*model.Work, error) {
	// Advisory pre-read: distinguishes "gone" from "wrong state" for the
	// caller. The conditional write below is the authoritative check.
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != model.StatusInitial {
		return nil, model.ErrInvalidTransition
	}

	w, err := s.repo.Publish(ctx, id, time.Now())
	if err != nil {
		return nil, err
	}

	logger.Info("work published", map[string]interface{}{"workId": w.ID})
	s.invalidateRender(ctx, w)
	return w, nil
}

func (s *workService) PublishTemplate(ctx context.Context, id int64) (*model.Work, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.IsTemplate {
		return nil, model.ErrAlreadyTemplate
	}
	if existing.Status != model.StatusPublished {
		return nil, model.ErrInvalidTransition
	}

	w, err := s.repo.PublishTemplate(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.Info("work published as template", map[string]interface{}{"workId": w.ID})
	return w, nil
}

func (s *workService) SoftDelete(ctx context.Context, id int64) error {
	// Fetch first so the cache key can be invalidated; the delete itself
	// is guarded against double deletion.
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	logger.Info("work deleted", map[string]interface{}{"workId": id})
	s.invalidateRender(ctx, existing)
	return nil
}

// Copy clones a readable work into a fresh draft owned by the caller and
// bumps the source's copied counter.
func (s *workService) Copy(ctx context.Context, p shared.Principal, sourceID int64) (*model.Work, error) {
	source, err := s.repo.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	// The policy layer already checked readability; keep the ownership
	// invariant here regardless of the route configuration.
	if source.UserID != p.ID && !source.IsPublic {
		return nil, model.ErrNoPermission
	}

	workUUID, err := shortid.NewWorkUUID()
	if err != nil {
		return nil, fmt.Errorf("generate work uuid: %w", err)
	}

	clone := &model.Work{
		UUID:     workUUID,
		Title:    source.Title,
		Desc:     source.Desc,
		CoverImg: source.CoverImg,
		Content:  source.Content,
		Status:   model.StatusInitial,
		UserID:   p.ID,
		Author:   p.Username,
		Channels: []model.Channel{},
	}

	if err := s.repo.Create(ctx, clone); err != nil {
		return nil, err
	}

	// Counter bump is best-effort: the clone already exists and losing one
	// count is preferable to failing the copy.
	if err := s.repo.IncrementCopiedCount(ctx, sourceID); err != nil {
		logger.Error("failed to increment copied count", err)
	}

	return clone, nil
}

func (s *workService) MyList(ctx context.Context, userID uuid.UUID, q model.ListQuery) ([]model.WorkListItem, int, error) {
	q.Normalize()

	works, total, err := s.repo.ListByUser(ctx, userID, q.Page, q.Limit)
	if err != nil {
		return nil, 0, err
	}
	return toListItems(works), total, nil
}

func (s *workService) Templates(ctx context.Context, q model.ListQuery) ([]model.WorkListItem, int, error) {
	q.Normalize()

	works, total, err := s.repo.ListTemplates(ctx, q.Page, q.Limit)
	if err != nil {
		return nil, 0, err
	}
	return toListItems(works), total, nil
}

func toListItems(works []*model.Work) []model.WorkListItem {
	items := make([]model.WorkListItem, 0, len(works))
	for _, w := range works {
		items = append(items, model.NewWorkListItem(w))
	}
	return items
}

// invalidateRender drops the cached public page so viewers never see stale
// content after a mutation. A cache error is logged, not surfaced.
func (s *workService) invalidateRender(ctx context.Context, w *model.Work) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, shared.PageRenderCacheKey(w.ID, w.UUID)); err != nil {
		logger.Error("failed to invalidate render cache", err)
	}
}
