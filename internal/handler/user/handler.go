package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/hms-api/internal/handler"
	"github.com/jwalitptl/hms-api/internal/model"
	userService "github.com/jwalitptl/hms-api/internal/service/user"
)

type Handler struct {
	service *userService.Service
}

func NewHandler(service *userService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("", h.Create)
		users.GET("", h.List)
		users.GET("/:id", h.Get)
		users.PATCH("/:id", h.Update)
		users.DELETE("/:id", h.Delete)
	}

	r.GET("/patients", h.listRole(model.UserRolePatient))
	r.GET("/doctors", h.listRole(model.UserRoleDoctor))
	r.GET("/admins", h.listRole(model.UserRoleAdmin))
	r.GET("/specialists", h.ListSpecialists)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.Keyed(user.ID.String(), user))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.Keyed(user.ID.String(), user))
}

// List returns every user as an id-keyed mapping.
func (h *Handler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context(), "")
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, keyedUsers(users))
}

func (h *Handler) listRole(role model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := h.service.List(c.Request.Context(), role)
		if err != nil {
			handler.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, keyedUsers(users))
	}
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "Invalid user ID")
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.Keyed(user.ID.String(), user))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *Handler) ListSpecialists(c *gin.Context) {
	specs, err := h.service.ListSpecializations(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	if specs == nil {
		specs = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"specialists": specs})
}

func keyedUsers(users []*model.User) gin.H {
	out := gin.H{}
	for _, u := range users {
		out[u.ID.String()] = u
	}
	return out
}
