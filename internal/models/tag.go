package models

// Tag is a free-form label attachable to tasks. Tag names are unique
// per account; a tag is created the first time a task references it and
// is never deleted, even when no task links to it anymore.
type Tag struct {
	ID     int64  `json:"id" db:"tag_id"`
	UserID int64  `json:"user_id" db:"user_id"`
	Name   string `json:"name" db:"name" validate:"required"`
}

// TableName returns the database table name for the Tag model.
func (t *Tag) TableName() string {
	return "tags"
}
