package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pagecraft-backend/internal/domains/work/model"
)

// WorkRepository is the persistence contract of the work domain.
//
// Every mutating method is a single conditional write: the WHERE clause
// re-states the business precondition, and "zero rows matched" comes back
// as the corresponding domain error. Reads done before a mutation are
// advisory only; the predicate is the authoritative check.
type WorkRepository interface {
	// Create inserts a new work and fills in the assigned id and
	// timestamps.
	Create(ctx context.Context, w *model.Work) error

	// GetByID returns the work, or ErrWorkNotFound when it is absent or
	// soft-deleted. Deleted works are indistinguishable from missing ones.
	GetByID(ctx context.Context, id int64) (*model.Work, error)

	// GetPublished returns the work only when id and uuid match and the
	// status is Published; used by the public render path.
	GetPublished(ctx context.Context, id int64, uuid string) (*model.Work, error)

	// UpdateFields applies the patch to a non-deleted work.
	UpdateFields(ctx context.Context, id int64, patch model.WorkPatch) (*model.Work, error)

	// Publish transitions Initial -> Published and stamps latestPublishAt.
	// Zero rows (wrong status, deleted, or lost race) is
	// ErrInvalidTransition.
	Publish(ctx context.Context, id int64, at time.Time) (*model.Work, error)

	// PublishTemplate sets isTemplate and isPublic on a Published,
	// not-yet-template work. Zero rows is ErrInvalidTransition.
	PublishTemplate(ctx context.Context, id int64) (*model.Work, error)

	// SoftDelete moves any non-deleted work to Deleted. Zero rows is
	// ErrWorkNotFound, matching the deleted-equals-absent rule.
	SoftDelete(ctx context.Context, id int64) error

	// CreateChannel appends the channel, guarded by "work not deleted AND
	// no channel with this name". Zero rows is ErrChannelOperateFailed.
	CreateChannel(ctx context.Context, workID int64, ch model.Channel) error

	// RenameChannel renames the channel, guarded by "channel exists AND
	// new name unused". Zero rows is ErrChannelOperateFailed.
	RenameChannel(ctx context.Context, workID int64, channelID, newName string) error

	// DeleteChannel removes the channel, guarded by "channel exists AND
	// more than one channel remains". Zero rows is
	// ErrChannelOperateFailed.
	DeleteChannel(ctx context.Context, workID int64, channelID string) error

	// IncrementCopiedCount bumps the copy counter of a readable source.
	IncrementCopiedCount(ctx context.Context, id int64) error

	// ListByUser pages through a user's non-deleted works, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*model.Work, int, error)

	// ListTemplates pages through public templates, hot ones first.
	ListTemplates(ctx context.Context, page, limit int) ([]*model.Work, int, error)

	// PurgeDeletedBefore physically removes works soft-deleted before the
	// cutoff. Returns how many rows were removed.
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RefreshHotFlags recomputes is_hot so only the top-n public templates
	// by copied count carry it.
	RefreshHotFlags(ctx context.Context, topN int) error
}
