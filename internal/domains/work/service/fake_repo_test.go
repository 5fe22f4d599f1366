package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"pagecraft-backend/internal/domains/work/model"
)

// fakeWorkRepo is an in-memory WorkRepository that mirrors the real one's
// conditional-write semantics: every mutation checks its precondition
// under a single lock, so concurrent callers race the same way they would
// against the database.
type fakeWorkRepo struct {
	mu     sync.Mutex
	nextID int64
	works  map[int64]*model.Work
}

func newFakeWorkRepo() *fakeWorkRepo {
	return &fakeWorkRepo{nextID: 1, works: make(map[int64]*model.Work)}
}

func (f *fakeWorkRepo) clone(w *model.Work) *model.Work {
	cp := *w
	cp.Channels = append([]model.Channel(nil), w.Channels...)
	return &cp
}

func (f *fakeWorkRepo) Create(_ context.Context, w *model.Work) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.ID = f.nextID
	f.nextID++
	now := time.Now()
	w.CreatedAt = now
	w.UpdatedAt = now
	f.works[w.ID] = f.clone(w)
	return nil
}

func (f *fakeWorkRepo) GetByID(_ context.Context, id int64) (*model.Work, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.works[id]
	if !ok || w.Status == model.StatusDeleted {
		return nil, model.ErrWorkNotFound
	}
	return f.clone(w), nil
}

func (f *fakeWorkRepo) GetPublished(_ context.Context, id int64, u string) (*model.Work, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.works[id]
	if !ok || w.UUID != u || w.Status != model.StatusPublished {
		return nil, model.ErrWorkNotFound
	}
	return f.clone(w), nil
}

func (f *fakeWorkRepo) UpdateFields(_ context.Context, id int64, patch model.WorkPatch) (*model.Work, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.works[id]
	if !ok || w.Status == model.StatusDeleted {
		return nil, model.ErrWorkNotFound
	}
	if patch.Title != nil {
		w.Title = *patch.Title
	}
	if patch.Desc != nil {
		w.Desc = *patch.Desc
	}
	if patch.CoverImg != nil {
		w.CoverImg = *patch.CoverImg
	}
	if patch.Content != nil {
		w.Content = patch.Content
	}
	w.UpdatedAt = time.Now()
	return f.clone(w), nil
}

func (f *fakeWorkRepo) Publish(_ context.Context, id int64, at time.Time) (*model.Work, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.works[id]
	if !ok || w.Status != model.StatusInitial {
		return nil, model.ErrInvalidTransition
	}
	w.Status = model.StatusPublished
	w.LatestPublishAt = &at
	return f.clone(w), nil
}

func (f *fakeWorkRepo) PublishTemplate(_ context.Context, id int64) (*model.Work, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.works[id]
	if !ok || w.Status != model.StatusPublished || w.IsTemplate {
		return nil, model.ErrInvalidTransition
	}
	w.IsTemplate = true
	w.IsPublic = true
	return f.clone(w), nil
}

func (f *fakeWorkRepo) SoftDelete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.works[id]
	if !ok || w.Status == model.StatusDeleted {
		return model.ErrWorkNotFound
	}
	w.Status = model.StatusDeleted
	w.UpdatedAt = time.Now()
	return nil
}

func (f *fakeWorkRepo) CreateChannel(_ context.Context, workID int64, ch model.Channel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.works[workID]
	if !ok || w.Status == model.StatusDeleted || w.HasChannelName(ch.Name) {
		return model.ErrChannelOperateFailed
	}
	w.Channels = append(w.Channels, ch)
	return nil
}

func (f *fakeWorkRepo) RenameChannel(_ context.Context, workID int64, channelID, newName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.works[workID]
	if !ok || w.Status == model.StatusDeleted || w.HasChannelName(newName) {
		return model.ErrChannelOperateFailed
	}
	for i := range w.Channels {
		if w.Channels[i].ID == channelID {
			w.Channels[i].Name = newName
			return nil
		}
	}
	return model.ErrChannelOperateFailed
}

func (f *fakeWorkRepo) DeleteChannel(_ context.Context, workID int64, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.works[workID]
	if !ok || w.Status == model.StatusDeleted || len(w.Channels) <= 1 {
		return model.ErrChannelOperateFailed
	}
	for i := range w.Channels {
		if w.Channels[i].ID == channelID {
			w.Channels = append(w.Channels[:i], w.Channels[i+1:]...)
			return nil
		}
	}
	return model.ErrChannelOperateFailed
}

func (f *fakeWorkRepo) IncrementCopiedCount(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.works[id]
	if !ok {
		return model.ErrWorkNotFound
	}
	w.CopiedCount++
	return nil
}

func (f *fakeWorkRepo) ListByUser(_ context.Context, userID uuid.UUID, page, limit int) ([]*model.Work, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Work
	for _, w := range f.works {
		if w.UserID == userID && w.Status != model.StatusDeleted {
			out = append(out, f.clone(w))
		}
	}
	return paginate(out, page, limit), len(out), nil
}

func (f *fakeWorkRepo) ListTemplates(_ context.Context, page, limit int) ([]*model.Work, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Work
	for _, w := range f.works {
		if w.IsTemplate && w.IsPublic && w.Status != model.StatusDeleted {
			out = append(out, f.clone(w))
		}
	}
	return paginate(out, page, limit), len(out), nil
}

func (f *fakeWorkRepo) PurgeDeletedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var purged int64
	for id, w := range f.works {
		if w.Status == model.StatusDeleted && w.UpdatedAt.Before(cutoff) {
			delete(f.works, id)
			purged++
		}
	}
	return purged, nil
}

func (f *fakeWorkRepo) RefreshHotFlags(_ context.Context, topN int) error {
	return nil
}

func paginate(works []*model.Work, page, limit int) []*model.Work {
	start := (page - 1) * limit
	if start >= len(works) {
		return nil
	}
	end := start + limit
	if end > len(works) {
		end = len(works)
	}
	return works[start:end]
}
