package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"larder/internal/config"
	"larder/internal/inventory"
	"larder/internal/models"
	"larder/internal/session"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
)

// searchTestRouter wires handleRecipeSearch with the context values the
// middleware chain normally provides.
func searchTestRouter(t *testing.T, db *sql.DB, svc *Services, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.LoadHTMLGlob("../../templates/*.html")
	r.POST("/recipes/search", func(c *gin.Context) {
		c.Set("db", db)
		c.Set("user", &models.User{ID: 1, Username: "alice"})
		c.Set("username", "alice")
		c.Set("session_id", "session-1")
		c.Set("config", cfg)
		c.Set("services", svc)
	}, handleRecipeSearch)
	return r
}

func TestRecipeSearchReportsPantryLoadFailure(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal("Failed to open test database:", err)
	}

	cfg := &config.Config{SessionDuration: time.Hour, RecipeCount: 5}
	svc := &Services{
		Inventory: inventory.NewService(db),
		Sessions:  session.NewManager(cfg.SessionDuration),
	}
	r := searchTestRouter(t, db, svc, cfg)

	// A dead store must render the load error, not a silently empty page
	db.Close()

	form := url.Values{"ingredients": {"flour"}}
	req := httptest.NewRequest("POST", "/recipes/search", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Failed to load your pantry") {
		t.Error("Expected the pantry load failure to be reported on the page")
	}
}
