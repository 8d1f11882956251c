package routes

import (
	"errors"
	"net/http"

	"jotfox-notes/jotfox/database"
	"jotfox-notes/jotfox/models"
	"jotfox-notes/jotfox/services"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes mounts the public login and register endpoints.
func RegisterAuthRoutes(group *gin.RouterGroup, db *database.Database, authService services.AuthServiceInterface) {
	group.POST("/user/login", func(c *gin.Context) { Login(c, db, authService) })
	group.POST("/user/register", func(c *gin.Context) { Register(c, db, authService) })
}

// RegisterTokenRoutes mounts the token check, which sits behind the auth
// middleware.
func RegisterTokenRoutes(group *gin.RouterGroup) {
	group.GET("/token", VerifyToken)
}

func Login(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) {
	var request models.Credentials
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := authService.Login(db, request.Email, request.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{Token: token})
}

func Register(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) {
	var request models.Credentials
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := authService.Register(db, request.Email, request.Password)
	if err != nil {
		if errors.Is(err, services.ErrResourceExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func VerifyToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"valid":  true,
		"userID": c.GetString("userID"),
		"email":  c.GetString("email"),
	})
}
