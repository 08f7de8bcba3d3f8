// Package httpapi exposes the services over a JSON REST API built on gin.
package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskplaces/internal/logging"
	"github.com/dmitrijs2005/taskplaces/internal/server/auth"
	"github.com/dmitrijs2005/taskplaces/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services are the collaborators the API needs.
type Services struct {
	Users  *services.UserService
	Tasks  *services.TaskService
	Places *services.PlaceService
	Gate   *auth.Gate
}

type handler struct {
	users  *services.UserService
	tasks  *services.TaskService
	places *services.PlaceService
	gate   *auth.Gate
	logger logging.Logger
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(s Services, logger logging.Logger) *gin.Engine {
	h := &handler{
		users:  s.Users,
		tasks:  s.Tasks,
		places: s.Places,
		gate:   s.Gate,
		logger: logger.With("module", "http"),
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Hello World!") })
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	registerUserRoutes(r, h)
	registerTaskRoutes(r, h)
	registerPlaceRoutes(r, h)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{StatusCode: http.StatusNotFound, Message: "Cannot " + c.Request.Method + " " + c.Request.URL.Path})
	})
	return r
}

func registerUserRoutes(r *gin.Engine, h *handler) {
	g := r.Group("/users")
	g.POST("", h.createUser)
	g.POST("/login", h.login)

	protected := g.Group("", h.RequireAuth())
	protected.GET("/me", h.me)
	protected.PATCH("/:id", h.updateUser)
	protected.DELETE("/:id", h.removeUser)
}

func registerTaskRoutes(r *gin.Engine, h *handler) {
	g := r.Group("/tasks", h.RequireAuth())
	g.POST("", h.createTask)
	g.GET("", h.listTasks)
	g.GET("/:id", h.getTask)
	g.PATCH("/:id", h.updateTask)
	g.DELETE("/:id", h.removeTask)
}

func registerPlaceRoutes(r *gin.Engine, h *handler) {
	g := r.Group("/places")
	g.GET("", h.listPlaces)
	g.GET("/:id", h.getPlace)

	protected := g.Group("", h.RequireAuth())
	protected.POST("", h.createPlace)
	protected.PATCH("/:id", h.updatePlace)
	protected.DELETE("/:id", h.removePlace)
}
