// Package models defines the storage-layer record types for sitesmith.
package models

import (
	"time"

	"github.com/jackc/pgtype"
	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

/*
     Column     |          Type           | Collation | Nullable |      Default
----------------+-------------------------+-----------+----------+--------------------
 project_id     | uuid                    |           | not null | uuid_generate_v4()
 user_id        | uuid                    |           | not null |
 name           | character varying(128)  |           | not null |
 description    | character varying(1024) |           |          |
 domain         | character varying(255)  |           |          |
 subdomain      | character varying(63)   |           |          |
 is_published   | boolean                 |           | not null | false
 theme_settings | jsonb                   |           |          |
 created_at     | timestamptz             |           | not null | now()
 updated_at     | timestamptz             |           | not null | now()
*/

// Project model definition
type Project struct {
	ProjectID     uuid.UUID    `db:"project_id"`
	UserID        uuid.UUID    `db:"user_id"`
	Name          string       `db:"name"`
	Description   string       `db:"description"`
	Domain        string       `db:"domain"`
	Subdomain     string       `db:"subdomain"`
	IsPublished   bool         `db:"is_published"`
	ThemeSettings pgtype.JSONB `db:"theme_settings"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}
