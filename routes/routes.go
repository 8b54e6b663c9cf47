package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fmoraes/auth-api/controllers"
)

func SetupRoutes(router *gin.Engine, authController *controllers.AuthController, userController *controllers.UserController) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", userController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authController.AuthMiddleware(), authController.Logout)
	}

	user := router.Group("/auth/user")
	{
		user.GET("/me", authController.AuthMiddleware(), userController.GetCurrentUser)
	}
}
