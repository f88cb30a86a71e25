package models

import (
	"time"

	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

/*
      Column      |          Type           | Collation | Nullable |      Default
------------------+-------------------------+-----------+----------+--------------------
 page_id          | uuid                    |           | not null | uuid_generate_v4()
 project_id       | uuid                    |           | not null | references projects
 title            | character varying(255)  |           | not null |
 slug             | character varying(255)  |           | not null |
 content          | text                    |           | not null | ''
 meta_description | character varying(320)  |           |          |
 meta_keywords    | character varying(512)  |           |          |
 is_published     | boolean                 |           | not null | false
 order_index      | integer                 |           | not null | 0
 parent_id        | uuid                    |           |          |
 created_at       | timestamptz             |           | not null | now()
 updated_at       | timestamptz             |           | not null | now()

 unique (project_id, slug)
*/

// OrderAppend on a new page's OrderIndex asks the store to place it
// after the project's current maximum. An explicit 0 is a real
// position.
const OrderAppend = -1

// Page model definition
type Page struct {
	PageID          uuid.UUID `db:"page_id"`
	ProjectID       uuid.UUID `db:"project_id"`
	Title           string    `db:"title"`
	Slug            string    `db:"slug"`
	Content         string    `db:"content"`
	MetaDescription string    `db:"meta_description"`
	MetaKeywords    string    `db:"meta_keywords"`
	IsPublished     bool      `db:"is_published"`
	OrderIndex      int       `db:"order_index"`
	ParentID        uuid.UUID `db:"parent_id"` // uuid.Nil when the page is a root
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}
