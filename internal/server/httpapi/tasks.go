package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/taskplaces/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (h *handler) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	t, err := h.tasks.Create(c.Request.Context(), callerID(c), services.NewTask{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *handler) listTasks(c *gin.Context) {
	list, err := h.tasks.FindAll(c.Request.Context(), callerID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) getTask(c *gin.Context) {
	t, err := h.tasks.FindOne(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *handler) updateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	t, err := h.tasks.Update(c.Request.Context(), c.Param("id"), callerID(c), req.patch())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *handler) removeTask(c *gin.Context) {
	if err := h.tasks.Remove(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
