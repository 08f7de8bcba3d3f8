package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/taskplaces/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (h *handler) createPlace(c *gin.Context) {
	var req createPlaceRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	p, err := h.places.Create(c.Request.Context(), callerID(c), services.NewPlace{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *handler) listPlaces(c *gin.Context) {
	list, err := h.places.FindAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) getPlace(c *gin.Context) {
	p, err := h.places.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handler) updatePlace(c *gin.Context) {
	var req updatePlaceRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	p, err := h.places.Update(c.Request.Context(), c.Param("id"), callerID(c), req.patch())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handler) removePlace(c *gin.Context) {
	if err := h.places.Remove(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Place deleted successfully"})
}
