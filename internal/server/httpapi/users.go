package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/taskplaces/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (h *handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	u, err := h.users.Create(c.Request.Context(), services.NewUser{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	res, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) me(c *gin.Context) {
	u, err := h.users.Me(c.Request.Context(), callerID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *handler) updateUser(c *gin.Context) {
	if !h.requireSelf(c) {
		return
	}
	var req updateUserRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	u, err := h.users.Update(c.Request.Context(), c.Param("id"), callerID(c), req.patch())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *handler) removeUser(c *gin.Context) {
	if !h.requireSelf(c) {
		return
	}
	if err := h.users.Remove(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

// requireSelf rejects a path id other than the caller's before the body or
// the account is looked at.
func (h *handler) requireSelf(c *gin.Context) bool {
	if c.Param("id") != callerID(c) {
		h.fail(c, services.ErrNotYourAccount)
		return false
	}
	return true
}
