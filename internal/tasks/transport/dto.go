package transport

import (
	"time"

	"anchor_crm_backend/internal/tasks/domain"

	"github.com/google/uuid"
)

type TaskResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	AssignedTo         uuid.UUID  `json:"assignedTo"`
	AssociatedAnchorID *uuid.UUID `json:"associatedAnchorId,omitempty"`
	Status             string     `json:"status"`
	Priority           string     `json:"priority"`
	DueDate            *time.Time `json:"dueDate,omitempty"`
	Overdue            bool       `json:"overdue"`
	CreatedBy          uuid.UUID  `json:"createdBy"`
	CreatedAt          time.Time  `json:"createdAt"`
}

type CreateTaskRequest struct {
	Title              string     `json:"title" validate:"required"`
	Description        string     `json:"description"`
	AssignedTo         uuid.UUID  `json:"assignedTo" validate:"required"`
	AssociatedAnchorID *uuid.UUID `json:"associatedAnchorId"`
	Priority           string     `json:"priority"`
	DueDate            *time.Time `json:"dueDate"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AssignedTo  *uuid.UUID `json:"assignedTo"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	// DueDateSet marks an explicit due date change, including clearing.
	DueDateSet bool `json:"dueDateSet"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func ToTaskResponse(t domain.Task, now time.Time) TaskResponse {
	return TaskResponse{
		ID:                 t.ID,
		Title:              t.Title,
		Description:        t.Description,
		AssignedTo:         t.AssignedTo,
		AssociatedAnchorID: t.AssociatedAnchorID,
		Status:             string(t.Status),
		Priority:           string(t.Priority),
		DueDate:            t.DueDate,
		Overdue:            t.IsOverdue(now),
		CreatedBy:          t.CreatedBy,
		CreatedAt:          t.CreatedAt,
	}
}

func ToTaskResponses(tasks []domain.Task, now time.Time) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskResponse(t, now))
	}
	return out
}
