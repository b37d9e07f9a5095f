//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// Task represents a unit of work. Tasks may belong to a job or stand
// alone (JobID nil).
type Task struct {
	ID          string       `json:"id"          db:"id"`
	JobID       *string      `json:"job_id,omitempty" db:"job_id"`
	Title       string       `json:"title"       db:"title"`
	Status      TaskStatus   `json:"status"      db:"status"`
	Priority    TaskPriority `json:"priority"    db:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty" db:"due_date"`
	CreatedBy   *string      `json:"created_by,omitempty" db:"created_by"`
	CompletedAt *time.Time   `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time    `json:"created_at"  db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"  db:"updated_at"`
}

// TaskStatus represents the workflow state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
	TaskStatusDone       TaskStatus = "DONE"
)

// Valid returns true if the task status is valid.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusBlocked, TaskStatusDone:
		return true
	default:
		return false
	}
}

// String returns the string representation of the task status.
func (s TaskStatus) String() string {
	return string(s)
}

// TaskPriority represents the priority of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

// Valid returns true if the task priority is valid.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	default:
		return false
	}
}

// String returns the string representation of the task priority.
func (p TaskPriority) String() string {
	return string(p)
}

// TaskAssignee joins a user to a task. At most one row exists per
// (task, user) pair; the table carries a UNIQUE constraint.
type TaskAssignee struct {
	ID        string    `json:"id"         db:"id"`
	TaskID    string    `json:"task_id"    db:"task_id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateTaskRequest carries the fields needed to create a task.
// AssigneeIDs are applied after the task row is committed; assignment
// side effects (enrollment, notifications, email) run downstream.
type CreateTaskRequest struct {
	JobID       *string      `json:"job_id,omitempty"`
	Title       string       `json:"title"`
	Priority    TaskPriority `json:"priority,omitempty"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CreatedBy   *string      `json:"created_by,omitempty"`
	AssigneeIDs []string     `json:"assignee_ids,omitempty"`
}

// Validate checks the request for required fields and valid values.
func (r *CreateTaskRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if r.Priority == "" {
		r.Priority = TaskPriorityMedium
	}
	if !r.Priority.Valid() {
		return errors.New("invalid task priority")
	}
	return nil
}

// TaskListOptions controls filtering and pagination of task listings.
type TaskListOptions struct {
	JobID      *string
	AssigneeID *string
	Status     *TaskStatus
	Limit      int
	Offset     int
}
