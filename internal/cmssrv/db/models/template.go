package models

import (
	"time"

	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

/*
   Column    |          Type           | Collation | Nullable |      Default
-------------+-------------------------+-----------+----------+--------------------
 template_id | uuid                    |           | not null | uuid_generate_v4()
 name        | character varying(128)  |           | not null |
 description | character varying(1024) |           |          |
 category    | character varying(64)   |           | not null |
 content     | text                    |           | not null | ''
 preview_url | character varying(2048) |           |          |
 created_at  | timestamptz             |           | not null | now()
*/

// Template model definition. Templates are read-only through the API.
type Template struct {
	TemplateID  uuid.UUID `db:"template_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Category    string    `db:"category"`
	Content     string    `db:"content"`
	PreviewURL  string    `db:"preview_url"`
	CreatedAt   time.Time `db:"created_at"`
}
