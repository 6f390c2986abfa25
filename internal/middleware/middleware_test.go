package middleware

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"larder/internal/config"
	"larder/internal/database"
	"larder/internal/session"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
)

func setupAuthTest(t *testing.T) (*sql.DB, *config.Config, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal("Failed to open test database:", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatal("Failed to run migrations:", err)
	}

	cfg := &config.Config{SessionDuration: time.Hour}
	return db, cfg, session.NewManager(cfg.SessionDuration)
}

func TestAuthRequiredDiscardsDeadSessionContext(t *testing.T) {
	db, cfg, sessions := setupAuthTest(t)

	if _, err := database.InsertUser(db, "alice", "hash"); err != nil {
		t.Fatal("Failed to insert user:", err)
	}
	dbSession, err := database.CreateSession(db, "alice", cfg.SessionDuration)
	if err != nil {
		t.Fatal("Failed to create session:", err)
	}

	ctx := sessions.Attach(dbSession.ID, "alice")
	ctx.AddMissing("flour", "butter")

	// The session row dies server-side without a logout
	if err := database.DeleteSession(db, dbSession.ID); err != nil {
		t.Fatal("Failed to delete session:", err)
	}

	r := gin.New()
	r.GET("/pantry", AuthRequired(db, cfg, sessions), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/pantry", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: dbSession.ID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("Expected redirect for a dead session, got %d", w.Code)
	}

	// The in-memory context went with the session: nothing of alice's
	// shopping list survives under that id.
	fresh := sessions.Get(dbSession.ID, "alice")
	if len(fresh.Entries()) != 0 {
		t.Errorf("Expected the dead session's context to be discarded, got entries %v", fresh.Entries())
	}
}

func TestAuthRequiredKeepsLiveSessionContext(t *testing.T) {
	db, cfg, sessions := setupAuthTest(t)

	if _, err := database.InsertUser(db, "alice", "hash"); err != nil {
		t.Fatal("Failed to insert user:", err)
	}
	dbSession, err := database.CreateSession(db, "alice", cfg.SessionDuration)
	if err != nil {
		t.Fatal("Failed to create session:", err)
	}

	ctx := sessions.Attach(dbSession.ID, "alice")
	ctx.AddMissing("flour")

	var gotUsername string
	r := gin.New()
	r.GET("/pantry", AuthRequired(db, cfg, sessions), func(c *gin.Context) {
		gotUsername = c.MustGet("username").(string)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/pantry", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: dbSession.ID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected a live session to pass, got %d", w.Code)
	}
	if gotUsername != "alice" {
		t.Errorf("Expected username alice in context, got %q", gotUsername)
	}

	if got := sessions.Get(dbSession.ID, "alice"); got != ctx {
		t.Error("Expected the live session's context to be kept")
	}
}
