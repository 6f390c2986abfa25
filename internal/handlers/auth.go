package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"larder/internal/auth"
	"larder/internal/config"
	"larder/internal/database"
	"larder/internal/logger"
	"larder/internal/models"

	"github.com/gin-gonic/gin"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func handleRegister(c *gin.Context) {
	svc := getServices(c)

	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	// Optional, only used for the welcome note; never stored.
	contactEmail := strings.TrimSpace(c.PostForm("email"))

	user, err := svc.Auth.Register(username, password)
	if err != nil {
		message := "Failed to create account. Please try again."
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			message = "Enter a username and a password"
		case errors.Is(err, auth.ErrUsernameTaken):
			message = "This username already exists. Please enter another one."
		default:
			logger.Error("Registration failed", "username", username, "error", err)
		}

		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"Title":    "Register - Larder",
			"Error":    message,
			"Username": username,
		})
		return
	}

	if svc.Email.IsEnabled() && emailRegex.MatchString(contactEmail) {
		go func(u models.User, recipient string) {
			if err := svc.Email.SendWelcomeEmail(&u, recipient); err != nil {
				logger.Warn("Failed to send welcome email",
					"username", u.Username,
					"error", err)
			}
		}(*user, contactEmail)
	}

	logger.Info("User registered", "username", user.Username)
	startSession(c, user)
}

func handleLogin(c *gin.Context) {
	svc := getServices(c)

	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	user, err := svc.Auth.Login(username, password)
	if err != nil {
		message := "Failed to log in. Please try again."
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			message = "Enter your username and your password"
		case errors.Is(err, auth.ErrUserNotFound):
			message = "Incorrect username"
		case errors.Is(err, auth.ErrWrongPassword):
			message = "Incorrect password"
		default:
			logger.Error("Login failed", "username", username, "error", err)
		}

		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Title":    "Login - Larder",
			"Error":    message,
			"Username": username,
		})
		return
	}

	startSession(c, user)
}

// startSession issues the cookie session and its in-memory context, then
// lands the user on their pantry. Shared by login and registration, which
// both transition LoggedOut -> LoggedIn.
func startSession(c *gin.Context, user *models.User) {
	svc := getServices(c)
	db := c.MustGet("db").(*sql.DB)
	cfg := c.MustGet("config").(*config.Config)

	dbSession, err := database.CreateSession(db, user.Username, cfg.SessionDuration)
	if err != nil {
		logger.Error("Failed to create session", "username", user.Username, "error", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Title": "Login - Larder",
			"Error": "Failed to create session. Please try again.",
		})
		return
	}

	svc.Sessions.Attach(dbSession.ID, user.Username)

	c.SetSameSite(http.SameSiteStrictMode)
	cookieMaxAge := int(cfg.SessionDuration.Seconds())
	c.SetCookie("session_id", dbSession.ID, cookieMaxAge, "/", "", true, true)
	c.Redirect(http.StatusFound, "/pantry")
}

func handleLogout(c *gin.Context) {
	svc := getServices(c)

	sessionCookie, err := c.Cookie("session_id")
	if err == nil {
		db := c.MustGet("db").(*sql.DB)
		if err := database.DeleteSession(db, sessionCookie); err != nil {
			logger.Warn("Failed to delete session", "session_id", sessionCookie, "error", err)
		}
		// Drops the username and the transient shopping list together.
		svc.Sessions.Discard(sessionCookie)
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("session_id", "", -1, "/", "", true, true)
	c.Redirect(http.StatusFound, "/")
}
