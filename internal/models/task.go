package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Priority is the urgency level of a task.
type Priority string

// Priority levels accepted by the store. Free-text values outside this
// set are rejected at the boundary.
const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Valid reports whether the priority is one of the accepted levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Recurrence is the repeat schedule of a task.
type Recurrence string

// Recurrence schedules accepted by the store.
const (
	RecurrenceNone    Recurrence = "None"
	RecurrenceDaily   Recurrence = "Daily"
	RecurrenceWeekly  Recurrence = "Weekly"
	RecurrenceMonthly Recurrence = "Monthly"
)

// Valid reports whether the recurrence is one of the accepted schedules.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// NextDue returns the due date of the next instance of a recurring task.
// The second return value is false for non-recurring tasks.
// Monthly uses a fixed 30-day interval, not calendar months.
func (r Recurrence) NextDue(due time.Time) (time.Time, bool) {
	switch r {
	case RecurrenceDaily:
		return due.AddDate(0, 0, 1), true
	case RecurrenceWeekly:
		return due.AddDate(0, 0, 7), true
	case RecurrenceMonthly:
		return due.AddDate(0, 0, 30), true
	}
	return time.Time{}, false
}

// dateLayout is the wire and storage format for calendar dates.
const dateLayout = "2006-01-02"

// Date is a calendar date without a time component.
// It marshals as "YYYY-MM-DD" and maps to the SQL DATE type.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON renders the date as a quoted "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON parses a quoted "YYYY-MM-DD" string. An empty string is
// rejected; callers omit the field or send null to leave the date unset.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

// Value implements driver.Valuer for writing the date to the database.
func (d Date) Value() (driver.Value, error) {
	return d.Format(dateLayout), nil
}

// Scan implements sql.Scanner for reading the date from the database.
// A value that cannot be interpreted as a date is logged and left zero
// rather than failing the whole row read.
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		d.Time = v
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		log.Warn().Interface("value", value).Msg("Unexpected due date type in database, treating as unset")
		return nil
	}
}

func (d *Date) scanString(s string) error {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		log.Warn().Str("value", s).Msg("Malformed due date in database, treating as unset")
		return nil
	}
	d.Time = t
	return nil
}

// Task represents a single to-do item owned by one account.
// The owning account never changes after creation.
type Task struct {
	ID          int64      `json:"id" db:"task_id"`
	UserID      int64      `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title" validate:"required"`
	Description string     `json:"description" db:"description"`
	Category    string     `json:"category" db:"category"`
	DueDate     *Date      `json:"due_date,omitempty" db:"due_date"`
	Priority    Priority   `json:"priority" db:"priority"`
	Recurrence  Recurrence `json:"recurrence" db:"recurrence"`
	Completed   bool       `json:"completed" db:"completed"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	Tags        []string   `json:"tags"`
}

// TableName returns the database table name for the Task model.
func (t *Task) TableName() string {
	return "tasks"
}

// TaskCreate represents the data required to create a task.
// Title is the only required field; the remaining fields default to
// category "Other", priority Medium and recurrence None.
type TaskCreate struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	DueDate     *Date      `json:"due_date"`
	Priority    Priority   `json:"priority" validate:"omitempty,oneof=High Medium Low"`
	Recurrence  Recurrence `json:"recurrence" validate:"omitempty,oneof=None Daily Weekly Monthly"`
	Tags        []string   `json:"tags"`
}

// TaskUpdate represents a partial update of a task's mutable fields.
// Each field is independently optional; nil fields are left unchanged.
// When Tags is non-nil the task's tag links are fully replaced.
type TaskUpdate struct {
	Title       *string     `json:"title" validate:"omitempty,min=1"`
	Description *string     `json:"description"`
	Category    *string     `json:"category"`
	DueDate     *Date       `json:"due_date"`
	Priority    *Priority   `json:"priority" validate:"omitempty,oneof=High Medium Low"`
	Recurrence  *Recurrence `json:"recurrence" validate:"omitempty,oneof=None Daily Weekly Monthly"`
	Completed   *bool       `json:"completed"`
	Tags        *[]string   `json:"tags"`
}

// Empty reports whether the update would change nothing.
func (u *TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Category == nil &&
		u.DueDate == nil && u.Priority == nil && u.Recurrence == nil &&
		u.Completed == nil && u.Tags == nil
}

// NewTask creates a Task from a creation request, applying defaults for
// the optional fields.
func NewTask(userID int64, req *TaskCreate) *Task {
	task := &Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Recurrence:  req.Recurrence,
		Completed:   false,
		CreatedAt:   time.Now(),
		Tags:        req.Tags,
	}

	if task.Category == "" {
		task.Category = "Other"
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}
	if task.Recurrence == "" {
		task.Recurrence = RecurrenceNone
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}

	return task
}
