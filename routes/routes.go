package routes

import (
	"os"
	"strings"

	"bikeshop-backend/config"
	"bikeshop-backend/controllers"
	"bikeshop-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(app *controllers.App) *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/login", app.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", app.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", app.CreateCustomer)
			customers.GET("", app.GetCustomers)
			customers.GET("/:id", app.GetCustomerProfile)
			customers.PUT("/:id", app.UpdateCustomer)
		}

		// Bicycle routes
		bicycles := api.Group("/bicycles")
		{
			bicycles.POST("", app.CreateBicycle)
			bicycles.GET("", app.GetBicycles)
			bicycles.DELETE("/:id", app.DeleteBicycle)
		}
		api.POST("/intake", app.Intake)

		// Job offer routes
		jobs := api.Group("/job-offers")
		{
			jobs.POST("", app.CreateJobOffer)
			jobs.GET("", app.GetJobOffers)
			jobs.GET("/:id", app.GetJobOffer)
			jobs.PUT("/:id", app.UpdateJobOffer)
			jobs.POST("/:id/complete", app.CompleteJob)
			jobs.DELETE("/:id", app.DeleteJobOffer)
		}

		// Repair history
		api.GET("/repair-history", app.GetRepairHistory)

		// Repair service catalog
		catalog := api.Group("/services")
		{
			catalog.GET("", app.GetServices)
			catalog.POST("", app.CreateService)
			catalog.PUT("/:id", app.UpdateService)
			catalog.DELETE("/:id", app.DeleteService)
		}

		// Export / import / migration
		api.GET("/export/json", app.ExportJSON)
		api.GET("/export/csv/:collection", app.ExportCSV)
		api.POST("/import", app.ImportJSON)
		api.POST("/migrate", app.Migrate)
		api.DELETE("/database", app.ClearDatabase)

		// Dashboard
		api.GET("/dashboard", app.GetDashboardOverview)
	}

	return r
}
