package sqlite

import (
	"time"

	"github.com/zjrosen/rulekit/internal/domain/uiresource"
)

// UIResourceModel is a row of the ui_resources table.
type UIResourceModel struct {
	ID          string
	ContentType string
	Content     []byte
	ETag        *string // nullable
	Size        int64
	FetchedAt   int64 // Unix milliseconds
}

func toUIResourceModel(r *uiresource.Resource) *UIResourceModel {
	m := &UIResourceModel{
		ID:          r.ID,
		ContentType: r.ContentType,
		Content:     r.Content,
		Size:        int64(len(r.Content)),
		FetchedAt:   r.FetchedAt.UnixMilli(),
	}
	if m.Content == nil {
		m.Content = []byte{}
	}
	if r.ETag != "" {
		etag := r.ETag
		m.ETag = &etag
	}
	return m
}

func (m *UIResourceModel) toDomain() *uiresource.Resource {
	r := &uiresource.Resource{
		ID:          m.ID,
		ContentType: m.ContentType,
		Content:     m.Content,
		FetchedAt:   time.UnixMilli(m.FetchedAt),
	}
	if m.ETag != nil {
		r.ETag = *m.ETag
	}
	return r
}
