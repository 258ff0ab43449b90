package routes

import (
	"github.com/employee-manager/internal/presentation/handler"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, authHandler *handler.AuthHandler,
	employeeHandler *handler.EmployeeHandler, authMiddleware gin.HandlerFunc) {
	// Public auth routes
	router.POST("/signup", authHandler.Register)
	router.POST("/login", authHandler.Login)
	router.POST("/validateEmail", authHandler.ValidateEmail)
	router.POST("/mfa-verify", authHandler.VerifyMFA)
	router.POST("/forgot-password", authHandler.ForgotPassword)
	router.POST("/reset-password", authHandler.ResetPassword)
	router.POST("/verify-google-token", authHandler.VerifyGoogleToken)

	// Employee CRUD behind the session token
	employees := router.Group("/employees")
	employees.Use(authMiddleware)
	{
		employees.GET("", employeeHandler.List)
		employees.GET("/:id", employeeHandler.GetByID)
		employees.POST("", employeeHandler.Create)
		employees.PUT("/:id", employeeHandler.Update)
		employees.DELETE("/:id", employeeHandler.Delete)
	}
}
