package models

import (
	"time"

	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

/*
    Column     |          Type           | Collation | Nullable |      Default
---------------+-------------------------+-----------+----------+--------------------
 user_id       | uuid                    |           | not null | uuid_generate_v4()
 email         | character varying(320)  |           | not null |
 password_hash | character varying(128)  |           | not null |
 created_at    | timestamptz             |           | not null | now()
*/

// User model definition
type User struct {
	UserID       uuid.UUID `db:"user_id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
