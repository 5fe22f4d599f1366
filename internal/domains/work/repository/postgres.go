package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pagecraft-backend/internal/domains/work/model"
)

// Table layout (channels live inside the work row so channel mutations and
// their uniqueness predicate are one atomic statement):
//
//	CREATE TABLE works (
//	    id                BIGSERIAL PRIMARY KEY,
//	    uuid              TEXT NOT NULL UNIQUE,
//	    title             TEXT NOT NULL,
//	    description       TEXT NOT NULL DEFAULT '',
//	    cover_img         TEXT NOT NULL DEFAULT '',
//	    content           JSONB,
//	    is_template       BOOLEAN NOT NULL DEFAULT FALSE,
//	    is_public         BOOLEAN NOT NULL DEFAULT FALSE,
//	    is_hot            BOOLEAN NOT NULL DEFAULT FALSE,
//	    author            TEXT NOT NULL,
//	    copied_count      INTEGER NOT NULL DEFAULT 0,
//	    status            SMALLINT NOT NULL DEFAULT 1,
//	    user_id           UUID NOT NULL REFERENCES users(id),
//	    latest_publish_at TIMESTAMPTZ,
//	    channels          JSONB NOT NULL DEFAULT '[]',
//	    created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
//	);

type postgresWorkRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresWorkRepository(pool *pgxpool.Pool) WorkRepository {
	return &postgresWorkRepository{pool: pool}
}

const workColumns = `
	id, uuid, title, description, cover_img, content,
	is_template, is_public, is_hot, author, copied_count,
	status, user_id, latest_publish_at, channels, created_at, updated_at`

func scanWork(row pgx.Row) (*model.Work, error) {
	w := &model.Work{}
	err := row.Scan(
		&w.ID,
		&w.UUID,
		&w.Title,
		&w.Desc,
		&w.CoverImg,
		&w.Content,
		&w.IsTemplate,
		&w.IsPublic,
		&w.IsHot,
		&w.Author,
		&w.CopiedCount,
		&w.Status,
		&w.UserID,
		&w.LatestPublishAt,
		&w.Channels,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if w.Channels == nil {
		w.Channels = []model.Channel{}
	}
	return w, nil
}

// ========================================
// CREATE / READ
// ========================================

func (r *postgresWorkRepository) Create(ctx context.Context, w *model.Work) error {
	query := `
		INSERT INTO works (
			uuid, title, description, cover_img, content,
			is_template, is_public, author, copied_count, status, user_id, channels
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, '[]'::jsonb)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		w.UUID,
		w.Title,
		w.Desc,
		w.CoverImg,
		[]byte(w.Content),
		w.IsTemplate,
		w.IsPublic,
		w.Author,
		w.CopiedCount,
		w.Status,
		w.UserID,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create work: %w", err)
	}
	if w.Channels == nil {
		w.Channels = []model.Channel{}
	}
	return nil
}

func (r *postgresWorkRepository) GetByID(ctx context.Context, id int64) (*model.Work, error) {
	query := `SELECT ` + workColumns + ` FROM works WHERE id = $1 AND status <> 0`

	w, err := scanWork(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrWorkNotFound
		}
		return nil, fmt.Errorf("failed to get work: %w", err)
	}
	return w, nil
}

func (r *postgresWorkRepository) GetPublished(ctx context.Context, id int64, workUUID string) (*model.Work, error) {
	query := `SELECT ` + workColumns + ` FROM works WHERE id = $1 AND uuid = $2 AND status = 2`

	w, err := scanWork(r.pool.QueryRow(ctx, query, id, workUUID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrWorkNotFound
		}
		return nil, fmt.Errorf("failed to get published work: %w", err)
	}
	return w, nil
}

// ========================================
// LIFECYCLE TRANSITIONS
// ========================================
// Each transition re-states its precondition in the WHERE clause. Two
// concurrent attempts cannot both match; the loser scans zero rows and
// surfaces the domain error instead of overwriting.

func (r *postgresWorkRepository) UpdateFields(ctx context.Context, id int64, patch model.WorkPatch) (*model.Work, error) {
	query := `
		UPDATE works SET
			title       = COALESCE($2, title),
			description = COALESCE($3, description),
			cover_img   = COALESCE($4, cover_img),
			content     = COALESCE($5::jsonb, content),
			updated_at  = now()
		WHERE id = $1 AND status <> 0
		RETURNING ` + workColumns

	w, err := scanWork(r.pool.QueryRow(ctx, query,
		id,
		patch.Title,
		patch.Desc,
		patch.CoverImg,
		[]byte(patch.Content),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrWorkNotFound
		}
		return nil, fmt.Errorf("failed to update work: %w", err)
	}
	return w, nil
}

func (r *postgresWorkRepository) Publish(ctx context.Context, id int64, at time.Time) (*model.Work, error) {
	query := `
		UPDATE works SET
			status = 2,
			latest_publish_at = $2,
			updated_at = now()
		WHERE id = $1 AND status = 1
		RETURNING ` + workColumns

	w, err := scanWork(r.pool.QueryRow(ctx, query, id, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrInvalidTransition
		}
		return nil, fmt.Errorf("failed to publish work: %w", err)
	}
	return w, nil
}

func (r *postgresWorkRepository) PublishTemplate(ctx context.Context, id int64) (*model.Work, error) {
	query := `
		UPDATE works SET
			is_template = TRUE,
			is_public = TRUE,
			updated_at = now()
		WHERE id = $1 AND status = 2 AND is_template = FALSE
		RETURNING ` + workColumns

	w, err := scanWork(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrInvalidTransition
		}
		return nil, fmt.Errorf("failed to publish work as template: %w", err)
	}
	return w, nil
}

func (r *postgresWorkRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE works SET status = 0, updated_at = now() WHERE id = $1 AND status <> 0`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete work: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Already deleted or never existed; the two are indistinguishable.
		return model.ErrWorkNotFound
	}
	return nil
}

func (r *postgresWorkRepository) IncrementCopiedCount(ctx context.Context, id int64) error {
	query := `UPDATE works SET copied_count = copied_count + 1 WHERE id = $1 AND status <> 0`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment copied count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrWorkNotFound
	}
	return nil
}

// ========================================
// CHANNELS
// ========================================
// The uniqueness pre-check in the service is advisory; the predicates here
// close the check-then-act race. A loser matches zero rows and gets the
// generic operate-failed error.

func (r *postgresWorkRepository) CreateChannel(ctx context.Context, workID int64, ch model.Channel) error {
	query := `
		UPDATE works SET
			channels = channels || jsonb_build_array(jsonb_build_object('id', $2::text, 'name', $3::text)),
			updated_at = now()
		WHERE id = $1
		  AND status <> 0
		  AND NOT EXISTS (
			SELECT 1 FROM jsonb_array_elements(channels) c WHERE c->>'name' = $3
		  )
	`

	tag, err := r.pool.Exec(ctx, query, workID, ch.ID, ch.Name)
	if err != nil {
		return fmt.Errorf("failed to create channel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrChannelOperateFailed
	}
	return nil
}

func (r *postgresWorkRepository) RenameChannel(ctx context.Context, workID int64, channelID, newName string) error {
	query := `
		UPDATE works SET
			channels = (
				SELECT jsonb_agg(
					CASE WHEN c->>'id' = $2
						THEN jsonb_set(c, '{name}', to_jsonb($3::text))
						ELSE c
					END
				)
				FROM jsonb_array_elements(channels) c
			),
			updated_at = now()
		WHERE id = $1
		  AND status <> 0
		  AND EXISTS (SELECT 1 FROM jsonb_array_elements(channels) c WHERE c->>'id' = $2)
		  AND NOT EXISTS (SELECT 1 FROM jsonb_array_elements(channels) c WHERE c->>'name' = $3)
	`

	tag, err := r.pool.Exec(ctx, query, workID, channelID, newName)
	if err != nil {
		return fmt.Errorf("failed to rename channel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrChannelOperateFailed
	}
	return nil
}

func (r *postgresWorkRepository) DeleteChannel(ctx context.Context, workID int64, channelID string) error {
	// jsonb_array_length(channels) > 1 keeps the minimum-one-channel floor
	// race-free: concurrent deletes cannot drop the list to zero.
	query := `
		UPDATE works SET
			channels = COALESCE(
				(SELECT jsonb_agg(c) FROM jsonb_array_elements(channels) c WHERE c->>'id' <> $2),
				'[]'::jsonb
			),
			updated_at = now()
		WHERE id = $1
		  AND status <> 0
		  AND EXISTS (SELECT 1 FROM jsonb_array_elements(channels) c WHERE c->>'id' = $2)
		  AND jsonb_array_length(channels) > 1
	`

	tag, err := r.pool.Exec(ctx, query, workID, channelID)
	if err != nil {
		return fmt.Errorf("failed to delete channel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrChannelOperateFailed
	}
	return nil
}

// ========================================
// LISTS
// ========================================

func (r *postgresWorkRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*model.Work, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM works WHERE user_id = $1 AND status <> 0`
	if err := r.pool.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count works: %w", err)
	}

	query := `
		SELECT ` + workColumns + `
		FROM works
		WHERE user_id = $1 AND status <> 0
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list works: %w", err)
	}
	defer rows.Close()

	works, err := collectWorks(rows)
	if err != nil {
		return nil, 0, err
	}
	return works, total, nil
}

func (r *postgresWorkRepository) ListTemplates(ctx context.Context, page, limit int) ([]*model.Work, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM works WHERE is_template AND is_public AND status = 2`
	if err := r.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count templates: %w", err)
	}

	query := `
		SELECT ` + workColumns + `
		FROM works
		WHERE is_template AND is_public AND status = 2
		ORDER BY is_hot DESC, copied_count DESC, latest_publish_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	works, err := collectWorks(rows)
	if err != nil {
		return nil, 0, err
	}
	return works, total, nil
}

func collectWorks(rows pgx.Rows) ([]*model.Work, error) {
	works := make([]*model.Work, 0)
	for rows.Next() {
		w, err := scanWork(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work: %w", err)
		}
		works = append(works, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read works: %w", err)
	}
	return works, nil
}

// ========================================
// MAINTENANCE (worker jobs)
// ========================================

func (r *postgresWorkRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM works WHERE status = 0 AND updated_at < $1`

	tag, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge deleted works: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresWorkRepository) RefreshHotFlags(ctx context.Context, topN int) error {
	query := `
		WITH ranked AS (
			SELECT id FROM works
			WHERE is_template AND is_public AND status = 2
			ORDER BY copied_count DESC, latest_publish_at DESC
			LIMIT $1
		)
		UPDATE works
		SET is_hot = (works.id IN (SELECT id FROM ranked))
		WHERE is_template
	`

	if _, err := r.pool.Exec(ctx, query, topN); err != nil {
		return fmt.Errorf("failed to refresh hot flags: %w", err)
	}
	return nil
}
