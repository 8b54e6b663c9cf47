package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/fmoraes/auth-api/config"
	"github.com/fmoraes/auth-api/controllers"
	"github.com/fmoraes/auth-api/database"
	"github.com/fmoraes/auth-api/routes"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		log.Fatal("Error loading .env:", err)
	}

	pgClient, err := database.NewPostgresClient(env.DBHost, env.DBUser, env.DBPassword, env.DBName, env.DBPort)
	if err != nil {
		log.Fatal("Error connecting to database:", err)
	}

	redisClient, err := database.GetRedisClient(env.RedisAddr, env.RedisPass, env.RedisDB)
	if err != nil {
		log.Fatal("Error connecting to redis:", err)
	}

	users := database.NewGormUserStore(pgClient)
	challenges := database.NewChallengeStore(redisClient, env.ChallengeTTL)

	authController := controllers.NewAuthController(users, challenges, redisClient, env.SessionTTL)
	userController := controllers.NewUserController(users)

	r := gin.Default()
	routes.SetupRoutes(r, authController, userController)

	if err := r.Run(":" + env.AppPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
