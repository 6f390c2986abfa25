package handlers

import (
	"database/sql"
	"net/http"

	"larder/internal/auth"
	"larder/internal/config"
	"larder/internal/email"
	"larder/internal/inventory"
	"larder/internal/middleware"
	"larder/internal/recipes"
	"larder/internal/session"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the handlers call into.
type Services struct {
	Auth      *auth.Service
	Inventory *inventory.Service
	Recipes   *recipes.Client
	Sessions  *session.Manager
	Email     *email.Service
}

func SetupRoutes(r *gin.Engine, db *sql.DB, cfg *config.Config, svc *Services) {
	r.Use(middleware.LogRequests())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeaders(cfg))
	r.Use(middleware.AddDBContext(db))
	r.Use(addServicesContext(svc))
	r.Use(addConfigContext(cfg))
	r.Use(middleware.TrimSpaces())

	r.GET("/", middleware.AuthOptional(db, cfg, svc.Sessions), handleHome)
	r.GET("/register", handleRegisterPage)
	r.POST("/register", middleware.AuthRateLimit(cfg), handleRegister)
	r.GET("/login", handleLoginPage)
	r.POST("/login", middleware.AuthRateLimit(cfg), handleLogin)
	r.POST("/logout", middleware.AuthRequired(db, cfg, svc.Sessions), handleLogout)

	protected := r.Group("/")
	protected.Use(middleware.AuthRequired(db, cfg, svc.Sessions))
	protected.Use(middleware.CSRF(cfg))
	{
		protected.GET("/pantry", handlePantry)
		protected.POST("/pantry/items", handleAddItem)
		protected.POST("/pantry/items/:id/delete", handleDeleteItem)

		protected.GET("/recipes", handleRecipesPage)
		protected.POST("/recipes/search", handleRecipeSearch)

		protected.GET("/shopping", handleShoppingList)
		protected.POST("/shopping/bought", handleMarkBought)
	}
}

func handleHome(c *gin.Context) {
	user, exists := c.Get("user")
	if exists {
		c.Redirect(http.StatusFound, "/pantry")
		return
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"Title": "Larder - Your Kitchen, Organized",
		"User":  user,
	})
}

func handleRegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"Title": "Register - Larder",
	})
}

func handleLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title": "Login - Larder",
	})
}

func addServicesContext(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("services", svc)
		c.Next()
	}
}

func addConfigContext(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	}
}

func getServices(c *gin.Context) *Services {
	return c.MustGet("services").(*Services)
}
