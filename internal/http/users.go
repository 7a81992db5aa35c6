package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresilva/courseapi/internal/auth"
	"github.com/andresilva/courseapi/internal/database/users"
	"github.com/andresilva/courseapi/internal/entities"
)

type UsersController struct {
	service *auth.Service
}

func NewUsersController(service *auth.Service) *UsersController {
	return &UsersController{service: service}
}

// Register creates a user account. The role defaults to student when
// omitted.
// POST /api/users
func (uc *UsersController) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name, email and password are required")
		return
	}
	role := entities.UserRole(req.Role)
	if req.Role == "" {
		role = entities.UserRoleStudent
	}

	user, err := uc.service.Register(req.Name, req.Email, req.Password, role)
	if errors.Is(err, auth.ErrEmailTaken) {
		respondConflict(c, err.Error())
		return
	}
	switch {
	case errors.Is(err, auth.ErrEmailInvalid),
		errors.Is(err, auth.ErrInvalidRole),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordTooLong):
		respondBadRequest(c, err.Error())
		return
	case err != nil:
		respondInternalError(c, err, "register user")
		return
	}

	token, err := uc.service.Token(user)
	if err != nil {
		respondInternalError(c, err, "sign token")
		return
	}
	respondCreated(c, gin.H{
		"token": token,
		"user":  user,
	})
}

// Login checks credentials and returns a signed token. Unknown email
// and wrong password produce the same response.
// POST /api/sessions
func (uc *UsersController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email and password are required")
		return
	}

	token, user, err := uc.service.Login(req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		respondInternalError(c, err, "login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Profile returns the caller's account.
// GET /api/me
func (uc *UsersController) Profile(c *gin.Context) {
	user, err := uc.service.Profile(auth.UserID(c))
	if errors.Is(err, users.ErrNotFound) {
		respondNotFound(c, "user")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get profile")
		return
	}
	c.JSON(http.StatusOK, user)
}
