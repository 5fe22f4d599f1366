package model

import (
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ========================================
// WORK DTOs
// ========================================

type CreateWorkReq struct {
	Title    string          `json:"title" binding:"required"`
	Desc     string          `json:"desc"`
	CoverImg string          `json:"coverImg"`
	Content  json.RawMessage `json:"content" binding:"required"`
}

func (r CreateWorkReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 120),
		),
		validation.Field(&r.Desc, validation.Length(0, 500)),
		validation.Field(&r.CoverImg, validation.Length(0, 1024)),
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
		),
	)
}

type UpdateWorkReq struct {
	Title    *string         `json:"title"`
	Desc     *string         `json:"desc"`
	CoverImg *string         `json:"coverImg"`
	Content  json.RawMessage `json:"content"`
}

func (r UpdateWorkReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 120)),
		validation.Field(&r.Desc, validation.Length(0, 500)),
		validation.Field(&r.CoverImg, validation.Length(0, 1024)),
	)
}

// Patch converts the request into the field set the repository applies.
func (r UpdateWorkReq) Patch() WorkPatch {
	return WorkPatch{
		Title:    r.Title,
		Desc:     r.Desc,
		CoverImg: r.CoverImg,
		Content:  r.Content,
	}
}

// IsEmpty reports whether the request changes nothing.
func (r UpdateWorkReq) IsEmpty() bool {
	return r.Title == nil && r.Desc == nil && r.CoverImg == nil && len(r.Content) == 0
}

// ListQuery is shared by the my-works and template listings.
type ListQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize clamps pagination to sane bounds.
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > 50 {
		q.Limit = 50
	}
}

// ========================================
// CHANNEL DTOs
// ========================================

// Channel mutations address the work through the body ("workId"), which is
// also where the policy layer reads the target id from.

type CreateChannelReq struct {
	WorkID int64  `json:"workId" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

func (r CreateChannelReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.WorkID, validation.Required, validation.Min(1)),
		validation.Field(&r.Name,
			validation.Required.Error("channel name is required"),
			validation.Length(1, 60),
		),
	)
}

type UpdateChannelReq struct {
	WorkID    int64  `json:"workId" binding:"required"`
	ChannelID string `json:"channelId" binding:"required"`
	Name      string `json:"name" binding:"required"`
}

func (r UpdateChannelReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.WorkID, validation.Required, validation.Min(1)),
		validation.Field(&r.ChannelID, validation.Required, validation.Length(1, 32)),
		validation.Field(&r.Name,
			validation.Required.Error("channel name is required"),
			validation.Length(1, 60),
		),
	)
}

type DeleteChannelReq struct {
	WorkID    int64  `json:"workId" binding:"required"`
	ChannelID string `json:"channelId" binding:"required"`
}

func (r DeleteChannelReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.WorkID, validation.Required, validation.Min(1)),
		validation.Field(&r.ChannelID, validation.Required, validation.Length(1, 32)),
	)
}

// ========================================
// RESPONSE DTOs
// ========================================

// WorkListItem omits the (potentially large) content payload.
type WorkListItem struct {
	ID              int64      `json:"id"`
	UUID            string     `json:"uuid"`
	Title           string     `json:"title"`
	Desc            string     `json:"desc"`
	CoverImg        string     `json:"coverImg"`
	IsTemplate      bool       `json:"isTemplate"`
	IsPublic        bool       `json:"isPublic"`
	IsHot           bool       `json:"isHot"`
	Author          string     `json:"author"`
	CopiedCount     int        `json:"copiedCount"`
	Status          Status     `json:"status"`
	LatestPublishAt *time.Time `json:"latestPublishAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// NewWorkListItem projects a work onto its listing shape.
func NewWorkListItem(w *Work) WorkListItem {
	return WorkListItem{
		ID:              w.ID,
		UUID:            w.UUID,
		Title:           w.Title,
		Desc:            w.Desc,
		CoverImg:        w.CoverImg,
		IsTemplate:      w.IsTemplate,
		IsPublic:        w.IsPublic,
		IsHot:           w.IsHot,
		Author:          w.Author,
		CopiedCount:     w.CopiedCount,
		Status:          w.Status,
		LatestPublishAt: w.LatestPublishAt,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}
