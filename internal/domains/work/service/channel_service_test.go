package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagecraft-backend/internal/domains/work/model"
)

func setupChannelTest(t *testing.T) (ChannelService, *model.Work) {
	t.Helper()
	repo := newFakeWorkRepo()
	workSvc := NewWorkService(repo, nil)
	w := createTestWork(t, workSvc, testPrincipal())
	return NewChannelService(repo), w
}

func TestCreateChannel(t *testing.T) {
	svc, w := setupChannelTest(t)
	ctx := context.Background()

	ch, err := svc.Create(ctx, &model.CreateChannelReq{WorkID: w.ID, Name: "wechat"})
	require.NoError(t, err)
	assert.Len(t, ch.ID, 6)
	assert.Equal(t, "wechat", ch.Name)

	t.Run("duplicate name rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, &model.CreateChannelReq{WorkID: w.ID, Name: "wechat"})
		assert.ErrorIs(t, err, model.ErrChannelDuplicate)
	})

	t.Run("names are case sensitive", func(t *testing.T) {
		_, err := svc.Create(ctx, &model.CreateChannelReq{WorkID: w.ID, Name: "WeChat"})
		assert.NoError(t, err)
	})

	t.Run("missing work", func(t *testing.T) {
		_, err := svc.Create(ctx, &model.CreateChannelReq{WorkID: 9999, Name: "weibo"})
		assert.ErrorIs(t, err, model.ErrWorkNotFound)
	})
}

func TestCreateChannelConcurrentSameName(t *testing.T) {
	svc, w := setupChannelTest(t)
	ctx := context.Background()

	const racers = 6
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, &model.CreateChannelReq{WorkID: w.ID, Name: "douyin"})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		}
	}
	assert.Equal(t, 1, wins, "one name, one channel")
}

func TestRenameChannel(t *testing.T) {
	svc, w := setupChannelTest(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, &model.CreateChannelReq{WorkID: w.ID, Name: "wechat"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &model.CreateChannelReq{WorkID: w.ID, Name: "weibo"})
	require.NoError(t, err)

	t.Run("rename to fresh name", func(t *testing.T) {
		err := svc.Rename(ctx, &model.UpdateChannelReq{WorkID: w.ID, ChannelID: a.ID, Name: "qq"})
		assert.NoError(t, err)
	})

	t.Run("rename onto an existing name", func(t *testing.T) {
		err := svc.Rename(ctx, &model.UpdateChannelReq{WorkID: w.ID, ChannelID: a.ID, Name: "weibo"})
		assert.ErrorIs(t, err, model.ErrChannelDuplicate)
	})

	t.Run("unknown channel id", func(t *testing.T) {
		err := svc.Rename(ctx, &model.UpdateChannelReq{WorkID: w.ID, ChannelID: "nope01", Name: "line"})
		assert.ErrorIs(t, err, model.ErrChannelOperateFailed)
	})
}

func TestDeleteChannel(t *testing.T) {
	svc, w := setupChannelTest(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, &model.CreateChannelReq{WorkID: w.ID, Name: "wechat"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, &model.CreateChannelReq{WorkID: w.ID, Name: "weibo"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, &model.DeleteChannelReq{WorkID: w.ID, ChannelID: a.ID}))

	t.Run("last channel cannot be removed", func(t *testing.T) {
		err := svc.Delete(ctx, &model.DeleteChannelReq{WorkID: w.ID, ChannelID: b.ID})
		assert.ErrorIs(t, err, model.ErrChannelLastOne)
	})

	t.Run("unknown channel id", func(t *testing.T) {
		err := svc.Delete(ctx, &model.DeleteChannelReq{WorkID: w.ID, ChannelID: "nope01"})
		assert.ErrorIs(t, err, model.ErrChannelOperateFailed)
	})
}
