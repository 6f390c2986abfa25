package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"larder/internal/config"
	"larder/internal/database"
	"larder/internal/logger"
	"larder/internal/recipes"

	"github.com/gin-gonic/gin"
)

// recipeResult is one rendered search hit with its details folded in.
type recipeResult struct {
	Title          string
	Image          string
	Ingredients    []string
	Instructions   string
	ReadyInMinutes int
	Missing        []string
}

func handleRecipesPage(c *gin.Context) {
	username := c.MustGet("username").(string)
	db := c.MustGet("db").(*sql.DB)
	user := c.MustGet("user")
	svc := getServices(c)

	items, err := svc.Inventory.List(username)
	if err != nil {
		logger.Error("Failed to load pantry", "username", username, "error", err)
		c.HTML(http.StatusInternalServerError, "recipes.html", gin.H{
			"Title": "Find Recipes - Larder",
			"User":  user,
			"Error": "Failed to load your pantry",
		})
		return
	}

	csrfToken, err := database.CreateCSRFToken(db, username)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "recipes.html", gin.H{
			"Title": "Find Recipes - Larder",
			"User":  user,
			"Error": "Failed to generate security token",
		})
		return
	}

	c.HTML(http.StatusOK, "recipes.html", gin.H{
		"Title":     "Find Recipes - Larder",
		"User":      user,
		"Items":     items,
		"CSRFToken": csrfToken.Token,
	})
}

func handleRecipeSearch(c *gin.Context) {
	username := c.MustGet("username").(string)
	db := c.MustGet("db").(*sql.DB)
	user := c.MustGet("user")
	cfg := c.MustGet("config").(*config.Config)
	svc := getServices(c)
	sessionID := c.MustGet("session_id").(string)

	selected := c.PostFormArray("ingredients")

	items, err := svc.Inventory.List(username)
	if err != nil {
		logger.Error("Failed to load pantry", "username", username, "error", err)
		c.HTML(http.StatusInternalServerError, "recipes.html", gin.H{
			"Title": "Find Recipes - Larder",
			"User":  user,
			"Error": "Failed to load your pantry",
		})
		return
	}

	csrfToken, err := database.CreateCSRFToken(db, username)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "recipes.html", gin.H{
			"Title": "Find Recipes - Larder",
			"User":  user,
			"Error": "Failed to generate security token",
		})
		return
	}

	render := func(status int, extra gin.H) {
		data := gin.H{
			"Title":     "Find Recipes - Larder",
			"User":      user,
			"Items":     items,
			"CSRFToken": csrfToken.Token,
		}
		for k, v := range extra {
			data[k] = v
		}
		c.HTML(status, "recipes.html", data)
	}

	if len(selected) == 0 {
		render(http.StatusOK, gin.H{"Message": "Select at least one ingredient."})
		return
	}

	found, err := svc.Recipes.FindByIngredients(c.Request.Context(), selected, cfg.RecipeCount)
	if err != nil {
		// Fail closed: the recipe service being down means "no recipes",
		// never a broken page. The shopping list stays untouched.
		if !errors.Is(err, recipes.ErrUnavailable) {
			logger.Error("Recipe search failed", "username", username, "error", err)
		}
		render(http.StatusOK, gin.H{"Message": "No recipes available right now. Please try again later."})
		return
	}

	if len(found) == 0 {
		render(http.StatusOK, gin.H{"Message": "No recipes found for those ingredients."})
		return
	}

	sessionCtx := svc.Sessions.Get(sessionID, username)

	var results []recipeResult
	for _, recipe := range found {
		details, err := svc.Recipes.Information(c.Request.Context(), recipe.ID)
		if err != nil {
			logger.Warn("Failed to load recipe details", "recipe_id", recipe.ID, "error", err)
			continue
		}

		var ingredients []string
		for _, ingredient := range details.ExtendedIngredients {
			ingredients = append(ingredients, ingredient.Name)
		}

		missing, err := svc.Inventory.Missing(username, ingredients)
		if err != nil {
			logger.Error("Failed to compute missing ingredients", "username", username, "error", err)
			missing = nil
		}
		sessionCtx.AddMissing(missing...)

		results = append(results, recipeResult{
			Title:          recipe.Title,
			Image:          recipe.Image,
			Ingredients:    ingredients,
			Instructions:   details.Instructions,
			ReadyInMinutes: details.ReadyInMinutes,
			Missing:        missing,
		})
	}

	if len(results) == 0 {
		render(http.StatusOK, gin.H{"Message": "No recipes available right now. Please try again later."})
		return
	}

	render(http.StatusOK, gin.H{"Results": results})
}
