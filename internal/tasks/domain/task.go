// Package domain defines the task model for follow-up work items.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is a closed enum, distinct from lead statuses.
type TaskStatus string

const (
	TaskToDo       TaskStatus = "To-Do"
	TaskInProgress TaskStatus = "In Progress"
	TaskCompleted  TaskStatus = "Completed"
)

// Priority orders tasks in the work queue.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var knownStatuses = map[TaskStatus]struct{}{
	TaskToDo:       {},
	TaskInProgress: {},
	TaskCompleted:  {},
}

var knownPriorities = map[Priority]struct{}{
	PriorityLow:    {},
	PriorityMedium: {},
	PriorityHigh:   {},
}

// IsKnownStatus reports whether status belongs to the closed set.
func IsKnownStatus(status TaskStatus) bool {
	_, ok := knownStatuses[status]
	return ok
}

// IsKnownPriority reports whether priority belongs to the closed set.
func IsKnownPriority(priority Priority) bool {
	_, ok := knownPriorities[priority]
	return ok
}

// Task is a follow-up work item owned by its assignee. Visibility follows
// the assignee, the same ownership rule as assigned leads.
type Task struct {
	ID                 uuid.UUID
	Title              string
	Description        string
	AssignedTo         uuid.UUID
	AssociatedAnchorID *uuid.UUID
	Status             TaskStatus
	Priority           Priority
	DueDate            *time.Time
	CreatedBy          uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsOverdue reports whether the task has a due date in the past and is not
// completed.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != TaskCompleted
}
