package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	workmodel "pagecraft-backend/internal/domains/work/model"
	"pagecraft-backend/internal/shared"
	"pagecraft-backend/pkg/cache"
	"pagecraft-backend/pkg/logger"
)

// RenderService turns a published work into a standalone HTML page for
// anonymous visitors. Only published works render; drafts and deleted
// works are indistinguishable from absent ones.
type RenderService interface {
	Render(ctx context.Context, id int64, uuid string) (string, error)
}

// PublishedLoader is the slice of the work repository the renderer needs.
type PublishedLoader interface {
	GetPublished(ctx context.Context, id int64, uuid string) (*workmodel.Work, error)
}

// The shell bootstraps the client-side renderer. The work payload is
// emitted as JSON inside a script tag, not interpolated into markup, so
// html/template's contextual escaping covers only title and desc.
const pageShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="description" content="{{.Desc}}">
<title>{{.Title}}</title>
</head>
<body>
<div id="app"></div>
<script type="application/json" id="page-data">{{.Payload}}</script>
</body>
</html>
`

type renderService struct {
	repo     PublishedLoader
	cache    cache.Cache
	tmpl     *template.Template
	cacheTTL time.Duration
}

func NewRenderService(repo PublishedLoader, c cache.Cache, cacheTTL time.Duration) RenderService {
	return &renderService{
		repo:     repo,
		cache:    c,
		tmpl:     template.Must(template.New("page").Parse(pageShell)),
		cacheTTL: cacheTTL,
	}
}

func (s *renderService) Render(ctx context.Context, id int64, uuid string) (string, error) {
	key := shared.PageRenderCacheKey(id, uuid)

	var cached string
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		logger.Warn("page render: cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	} else if hit {
		return cached, nil
	}

	w, err := s.repo.GetPublished(ctx, id, uuid)
	if err != nil {
		return "", err
	}

	html, err := s.renderHTML(w)
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(ctx, key, html, s.cacheTTL); err != nil {
		logger.Warn("page render: cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	return html, nil
}

func (s *renderService) renderHTML(w *workmodel.Work) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"title":    w.Title,
		"desc":     w.Desc,
		"coverImg": w.CoverImg,
		"content":  w.Content,
		"author":   w.Author,
	})
	if err != nil {
		return "", fmt.Errorf("marshal page payload: %w", err)
	}

	var buf bytes.Buffer
	err = s.tmpl.Execute(&buf, map[string]interface{}{
		"Title":   w.Title,
		"Desc":    w.Desc,
		"Payload": template.JS(payload),
	})
	if err != nil {
		return "", fmt.Errorf("execute page template: %w", err)
	}
	return buf.String(), nil
}
