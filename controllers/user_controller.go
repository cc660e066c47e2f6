package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"libris/auth"
	"libris/services"
)

// UserController exposes member management. Listing and deletion are
// admin-gated by the route group; profile reads and edits are allowed for
// the user themselves, which the service checks.
type UserController struct {
	userService services.UserService
}

func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// ListUsers handles GET /users?query= (admin).
func (ctl *UserController) ListUsers(c *gin.Context) {
	_, isAdmin, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Cannot identify requesting user"})
		return
	}

	users, err := ctl.userService.ListUsers(c.Query("query"), isAdmin)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = mapUserToResponse(&users[i])
	}
	c.JSON(http.StatusOK, out)
}

// GetUser handles GET /users/:id (admin or self).
func (ctl *UserController) GetUser(c *gin.Context) {
	targetID, ok := parseIDParam(c)
	if !ok {
		return
	}
	actorID, isAdmin, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Cannot identify requesting user"})
		return
	}

	user, err := ctl.userService.GetUser(targetID, actorID, isAdmin)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapUserToResponse(user))
}

// UpdateUser handles PUT /users/:id (admin or self).
func (ctl *UserController) UpdateUser(c *gin.Context) {
	targetID, ok := parseIDParam(c)
	if !ok {
		return
	}
	actorID, isAdmin, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Cannot identify requesting user"})
		return
	}

	var input services.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return
	}

	user, err := ctl.userService.UpdateUser(targetID, actorID, isAdmin, &input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapUserToResponse(user))
}

// DeleteUser handles DELETE /users/:id (admin).
func (ctl *UserController) DeleteUser(c *gin.Context) {
	targetID, ok := parseIDParam(c)
	if !ok {
		return
	}
	actorID, isAdmin, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Cannot identify requesting user"})
		return
	}

	if err := ctl.userService.DeleteUser(targetID, actorID, isAdmin); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
