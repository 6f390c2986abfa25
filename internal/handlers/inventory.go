package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"larder/internal/database"
	"larder/internal/logger"

	"github.com/gin-gonic/gin"
)

func handlePantry(c *gin.Context) {
	username := c.MustGet("username").(string)
	db := c.MustGet("db").(*sql.DB)
	user := c.MustGet("user")
	svc := getServices(c)

	items, err := svc.Inventory.List(username)
	if err != nil {
		logger.Error("Failed to load pantry", "username", username, "error", err)
		c.HTML(http.StatusInternalServerError, "pantry.html", gin.H{
			"Title": "Pantry - Larder",
			"User":  user,
			"Error": "Failed to load your pantry",
		})
		return
	}

	csrfToken, err := database.CreateCSRFToken(db, username)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "pantry.html", gin.H{
			"Title": "Pantry - Larder",
			"User":  user,
			"Error": "Failed to generate security token",
		})
		return
	}

	c.HTML(http.StatusOK, "pantry.html", gin.H{
		"Title":     "Pantry - Larder",
		"User":      user,
		"Items":     items,
		"CSRFToken": csrfToken.Token,
	})
}

func handleAddItem(c *gin.Context) {
	username := c.MustGet("username").(string)
	svc := getServices(c)

	name := strings.TrimSpace(c.PostForm("name"))

	// Empty names and duplicates are skipped without complaint.
	if err := svc.Inventory.Add(username, name); err != nil {
		logger.Error("Failed to add item", "username", username, "error", err)
	}

	c.Redirect(http.StatusFound, "/pantry")
}

func handleDeleteItem(c *gin.Context) {
	username := c.MustGet("username").(string)
	svc := getServices(c)

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/pantry")
		return
	}

	// Stale or foreign ids fall through as no-ops.
	if err := svc.Inventory.Delete(username, itemID); err != nil {
		logger.Error("Failed to delete item", "username", username, "item_id", itemID, "error", err)
	}

	c.Redirect(http.StatusFound, "/pantry")
}
