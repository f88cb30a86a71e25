package apis

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgtype"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db/models"
)

var validate = validator.New()

// projectReq is the create/update request body for projects.
type projectReq struct {
	Name          string          `json:"name" validate:"required,max=128"`
	Description   string          `json:"description" validate:"max=1024"`
	Domain        string          `json:"domain" validate:"max=255"`
	Subdomain     string          `json:"subdomain" validate:"max=63"`
	IsPublished   *bool           `json:"is_published"`
	ThemeSettings json.RawMessage `json:"theme_settings"`
}

type projectRsp struct {
	ProjectID     string          `json:"project_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Domain        string          `json:"domain,omitempty"`
	Subdomain     string          `json:"subdomain,omitempty"`
	IsPublished   bool            `json:"is_published"`
	ThemeSettings json.RawMessage `json:"theme_settings,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func themeSettingsJSON(j pgtype.JSONB) json.RawMessage {
	if j.Status != pgtype.Present {
		return nil
	}
	return json.RawMessage(j.Bytes)
}

func themeSettingsColumn(raw json.RawMessage) pgtype.JSONB {
	j := pgtype.JSONB{Status: pgtype.Null}
	if len(raw) > 0 {
		j.Bytes = raw
		j.Status = pgtype.Present
	}
	return j
}

func toProjectRsp(p *models.Project) *projectRsp {
	return &projectRsp{
		ProjectID:     p.ProjectID.String(),
		Name:          p.Name,
		Description:   p.Description,
		Domain:        p.Domain,
		Subdomain:     p.Subdomain,
		IsPublished:   p.IsPublished,
		ThemeSettings: themeSettingsJSON(p.ThemeSettings),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// pageReq is the create/update request body for pages. Slug is derived
// from the title when absent on create.
type pageReq struct {
	Title           string `json:"title" validate:"required,max=255"`
	Slug            string `json:"slug" validate:"max=255"`
	Content         string `json:"content"`
	MetaDescription string `json:"meta_description" validate:"max=320"`
	MetaKeywords    string `json:"meta_keywords" validate:"max=512"`
	IsPublished     *bool  `json:"is_published"`
	OrderIndex      *int   `json:"order_index" validate:"omitempty,min=0"`
}

type pageRsp struct {
	PageID          string    `json:"page_id"`
	ProjectID       string    `json:"project_id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Content         string    `json:"content"`
	MetaDescription string    `json:"meta_description,omitempty"`
	MetaKeywords    string    `json:"meta_keywords,omitempty"`
	IsPublished     bool      `json:"is_published"`
	OrderIndex      int       `json:"order_index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toPageRsp(p *models.Page) *pageRsp {
	return &pageRsp{
		PageID:          p.PageID.String(),
		ProjectID:       p.ProjectID.String(),
		Title:           p.Title,
		Slug:            p.Slug,
		Content:         p.Content,
		MetaDescription: p.MetaDescription,
		MetaKeywords:    p.MetaKeywords,
		IsPublished:     p.IsPublished,
		OrderIndex:      p.OrderIndex,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

type templateRsp struct {
	TemplateID  string    `json:"template_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Content     string    `json:"content"`
	PreviewURL  string    `json:"preview_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTemplateRsp(t *models.Template) *templateRsp {
	return &templateRsp{
		TemplateID:  t.TemplateID.String(),
		Name:        t.Name,
		Description: t.Description,
		Category:    t.Category,
		Content:     t.Content,
		PreviewURL:  t.PreviewURL,
		CreatedAt:   t.CreatedAt,
	}
}

type analyticsEventRsp struct {
	EventID   string    `json:"event_id"`
	ProjectID string    `json:"project_id"`
	EventType string    `json:"event_type"`
	PagePath  string    `json:"page_path"`
	Referrer  string    `json:"referrer,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toAnalyticsEventRsp(e *models.AnalyticsEvent) *analyticsEventRsp {
	return &analyticsEventRsp{
		EventID:   e.EventID.String(),
		ProjectID: e.ProjectID.String(),
		EventType: e.EventType,
		PagePath:  e.PagePath,
		Referrer:  e.Referrer,
		UserAgent: e.UserAgent,
		CreatedAt: e.CreatedAt,
	}
}
