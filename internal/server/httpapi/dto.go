package httpapi

import (
	"github.com/dmitrijs2005/taskplaces/internal/server/models"
)

type createUserRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateUserRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=3,max=50"`
	Email *string `json:"email" binding:"omitempty,email"`
}

func (r updateUserRequest) patch() models.UserPatch {
	return models.UserPatch{Name: r.Name, Email: r.Email}
}

type createTaskRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS DONE"`
}

type updateTaskRequest struct {
	Title       *string            `json:"title" binding:"omitempty,min=1"`
	Description *string            `json:"description"`
	Status      *models.TaskStatus `json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS DONE"`
}

func (r updateTaskRequest) patch() models.TaskPatch {
	return models.TaskPatch{Title: r.Title, Description: r.Description, Status: r.Status}
}

type createPlaceRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

type updatePlaceRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1"`
	Description *string  `json:"description"`
	Address     *string  `json:"address"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

func (r updatePlaceRequest) patch() models.PlacePatch {
	return models.PlacePatch{
		Name:        r.Name,
		Description: r.Description,
		Address:     r.Address,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}
