package models

import (
	"time"

	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

/*
   Column   |          Type           | Collation | Nullable |      Default
------------+-------------------------+-----------+----------+--------------------
 event_id   | uuid                    |           | not null | uuid_generate_v4()
 project_id | uuid                    |           | not null | references projects
 event_type | character varying(64)   |           | not null |
 page_path  | character varying(2048) |           | not null |
 referrer   | character varying(2048) |           |          |
 user_agent | character varying(512)  |           |          |
 created_at | timestamptz             |           | not null | now()
*/

// AnalyticsEvent model definition. Events are written by the publishing
// edge and read-only through this API.
type AnalyticsEvent struct {
	EventID   uuid.UUID `db:"event_id"`
	ProjectID uuid.UUID `db:"project_id"`
	EventType string    `db:"event_type"`
	PagePath  string    `db:"page_path"`
	Referrer  string    `db:"referrer"`
	UserAgent string    `db:"user_agent"`
	CreatedAt time.Time `db:"created_at"`
}
