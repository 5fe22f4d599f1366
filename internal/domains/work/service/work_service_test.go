package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagecraft-backend/internal/domains/work/model"
	"pagecraft-backend/internal/shared"
)

func testPrincipal() shared.Principal {
	return shared.Principal{ID: uuid.New(), Username: "alice", Role: shared.RoleNormal}
}

func createTestWork(t *testing.T, svc WorkService, p shared.Principal) *model.Work {
	t.Helper()
	w, err := svc.Create(context.Background(), p, &model.CreateWorkReq{
		Title:   "landing page",
		Desc:    "spring campaign",
		Content: json.RawMessage(`{"components":[]}`),
	})
	require.NoError(t, err)
	return w
}

func TestCreateWork(t *testing.T) {
	repo := newFakeWorkRepo()
	svc := NewWorkService(repo, nil)
	p := testPrincipal()

	w := createTestWork(t, svc, p)

	assert.Equal(t, model.StatusInitial, w.Status)
	assert.Equal(t, p.ID, w.UserID)
	assert.Equal(t, "alice", w.Author)
	assert.Len(t, w.UUID, 8)
	assert.False(t, w.IsTemplate)
	assert.False(t, w.IsPublic)
	assert.Nil(t, w.LatestPublishAt)
}

func TestPublishLifecycle(t *testing.T) {
	repo := newFakeWorkRepo()
	svc := NewWorkService(repo, nil)
	p := testPrincipal()
	ctx := context.Background()

	w := createTestWork(t, svc, p)

	published, err := svc.Publish(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, published.Status)
	require.NotNil(t, published.LatestPublishAt)

	// Publishing twice is a transition error, not a no-op.
	_, err = svc.Publish(ctx, w.ID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestPublishConcurrentRace(t *testing.T) {
	repo := newFakeWorkRepo()
	svc := NewWorkService(repo, nil)
	p := testPrincipal()
	ctx := context.Background()

	w := createTestWork(t, svc, p)

	const racers = 8
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Publish(ctx, w.ID)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, model.ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, wins, "exactly one racer may publish")
}

func TestPublishTemplate(t *testing.T) {
	repo := newFakeWorkRepo()
	svc := NewWorkService(repo, nil)
	p := testPrincipal()
	ctx := context.Background()

	w := createTestWork(t, svc, p)

	// A draft cannot become a template.
	_, err := svc.PublishTemplate(ctx, w.ID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = svc.Publish(ctx, w.ID)
	require.NoError(t, err)

	tpl, err := svc.PublishTemplate(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, tpl.IsTemplate)
	assert.True(t, tpl.IsPublic)

	// Repeating it reports the template state, not a generic failure.
	_, err = svc.PublishTemplate(ctx, w.ID)
	assert.ErrorIs(t, err, model.ErrAlreadyTemplate)
}

func TestSoftDelete(t *testing.T) {
	repo := newFakeWorkRepo()
	svc := NewWorkService(repo, nil)
	p := testPrincipal()
	ctx := context.Background()

	w := createTestWork(t, svc, p)

	require.NoError(t, svc.SoftDelete(ctx, w.ID))

	// Deleted works are indistinguishable from absent ones.
	_, err := svc.Detail(ctx, w.ID)
	assert.ErrorIs(t, err, model.ErrWorkNotFound)

	assert.ErrorIs(t, svc.SoftDelete(ctx, w.ID), model.ErrWorkNotFound)

	// No transition leads out of the deleted state.
	_, err = svc.Publish(ctx, w.ID)
	assert.ErrorIs(t, err, model.ErrWorkNotFound)
	_, err = svc.Update(ctx, w.ID, &model.UpdateWorkReq{Title: strPtr("revived")})
	assert.ErrorIs(t, err, model.ErrWorkNotFound)
}

func TestUpdateFields(t *testing.T) {
	repo := newFakeWorkRepo()
	svc := NewWorkService(repo, nil)
	p := testPrincipal()
	ctx := context.Background()

	w := createTestWork(t, svc, p)

	updated, err := svc.Update(ctx, w.ID, &model.UpdateWorkReq{
		Title: strPtr("renamed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "spring campaign", updated.Desc, "untouched fields stay")

	// An empty patch is a read, not a write.
	same, err := svc.Update(ctx, w.ID, &model.UpdateWorkReq{})
	require.NoError(t, err)
	assert.Equal(t, "renamed", same.Title)
}

func TestCopy(t *testing.T) {
	repo := newFakeWorkRepo()
	svc := NewWorkService(repo, nil)
	owner := testPrincipal()
	other := shared.Principal{ID: uuid.New(), Username: "bob", Role: shared.RoleNormal}
	ctx := context.Background()

	source := createTestWork(t, svc, owner)

	t.Run("private work only copyable by owner", func(t *testing.T) {
		_, err := svc.Copy(ctx, other, source.ID)
		assert.ErrorIs(t, err, model.ErrNoPermission)

		clone, err := svc.Copy(ctx, owner, source.ID)
		require.NoError(t, err)
		assert.NotEqual(t, source.ID, clone.ID)
		assert.NotEqual(t, source.UUID, clone.UUID)
		assert.Equal(t, model.StatusInitial, clone.Status)
	})

	t.Run("public work copyable by anyone", func(t *testing.T) {
		_, err := svc.Publish(ctx, source.ID)
		require.NoError(t, err)
		_, err = svc.PublishTemplate(ctx, source.ID)
		require.NoError(t, err)

		clone, err := svc.Copy(ctx, other, source.ID)
		require.NoError(t, err)
		assert.Equal(t, other.ID, clone.UserID)
		assert.Equal(t, "bob", clone.Author)
		assert.False(t, clone.IsTemplate, "clone starts as a plain draft")
		assert.False(t, clone.IsPublic)

		got, err := svc.Detail(ctx, source.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.CopiedCount, 1)
	})
}

func TestMyListAndTemplates(t *testing.T) {
	repo := newFakeWorkRepo()
	svc := NewWorkService(repo, nil)
	p := testPrincipal()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		createTestWork(t, svc, p)
	}
	tplSource := createTestWork(t, svc, p)
	_, err := svc.Publish(ctx, tplSource.ID)
	require.NoError(t, err)
	_, err = svc.PublishTemplate(ctx, tplSource.ID)
	require.NoError(t, err)

	mine, total, err := svc.MyList(ctx, p.ID, model.ListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, mine, 4)

	templates, total, err := svc.Templates(ctx, model.ListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, templates, 1)
	assert.Equal(t, tplSource.ID, templates[0].ID)
}

func strPtr(s string) *string { return &s }
