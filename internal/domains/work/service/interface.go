package service

import (
	"context"

	"github.com/google/uuid"

	"pagecraft-backend/internal/domains/work/model"
	"pagecraft-backend/internal/shared"
)

// WorkService owns the work lifecycle. Authorization has already happened
// in the policy layer by the time these methods run; every state change
// still re-checks its own precondition through the repository's
// conditional write.
type WorkService interface {
	Create(ctx context.Context, p shared.Principal, req *model.CreateWorkReq) (*model.Work, error)
	Detail(ctx context.Context, id int64) (*model.Work, error)
	Update(ctx context.Context, id int64, req *model.UpdateWorkReq) (*model.Work, error)
	Publish(ctx context.Context, id int64) (*model.Work, error)
	PublishTemplate(ctx context.Context, id int64) (*model.Work, error)
	SoftDelete(ctx context.Context, id int64) error
	Copy(ctx context.Context, p shared.Principal, sourceID int64) (*model.Work, error)
	MyList(ctx context.Context, userID uuid.UUID, q model.ListQuery) ([]model.WorkListItem, int, error)
	Templates(ctx context.Context, q model.ListQuery) ([]model.WorkListItem, int, error)
}

// ChannelService manages the embedded channel list of a non-deleted work.
type ChannelService interface {
	Create(ctx context.Context, req *model.CreateChannelReq) (*model.Channel, error)
	Rename(ctx context.Context, req *model.UpdateChannelReq) error
	Delete(ctx context.Context, req *model.DeleteChannelReq) error
}
