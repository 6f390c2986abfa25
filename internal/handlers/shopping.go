package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"larder/internal/database"
	"larder/internal/logger"

	"github.com/gin-gonic/gin"
)

func handleShoppingList(c *gin.Context) {
	username := c.MustGet("username").(string)
	db := c.MustGet("db").(*sql.DB)
	user := c.MustGet("user")
	svc := getServices(c)
	sessionID := c.MustGet("session_id").(string)

	sessionCtx := svc.Sessions.Get(sessionID, username)

	csrfToken, err := database.CreateCSRFToken(db, username)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "shopping.html", gin.H{
			"Title": "Shopping List - Larder",
			"User":  user,
			"Error": "Failed to generate security token",
		})
		return
	}

	c.HTML(http.StatusOK, "shopping.html", gin.H{
		"Title":     "Shopping List - Larder",
		"User":      user,
		"Entries":   sessionCtx.Entries(),
		"CSRFToken": csrfToken.Token,
	})
}

// handleMarkBought removes an entry from the shopping list and puts the
// ingredient into the pantry. The add is dedup-safe, so marking something
// the user meanwhile added by hand changes nothing.
func handleMarkBought(c *gin.Context) {
	username := c.MustGet("username").(string)
	svc := getServices(c)
	sessionID := c.MustGet("session_id").(string)

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.Redirect(http.StatusFound, "/shopping")
		return
	}

	sessionCtx := svc.Sessions.Get(sessionID, username)
	if sessionCtx.MarkBought(name) {
		if err := svc.Inventory.Add(username, name); err != nil {
			logger.Error("Failed to add bought item", "username", username, "error", err)
		}
	}

	c.Redirect(http.StatusFound, "/shopping")
}
