package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LoginPayload defines the expected JSON structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler handles admin login requests. It checks credentials against
// environment-configured values and on success issues a session token,
// returned both as a cookie and in the response body.
func LoginHandler(c *gin.Context) {
	var payload LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	// LoadAdminCredentials() should have been called at application startup.
	if adminUsername == "" || adminPassword == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Admin credentials not configured on server"})
		return
	}

	if payload.Username != adminUsername || payload.Password != adminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token := sessions.create()
	// HttpOnly to keep the token away from scripts. Secure=false for local
	// dev without HTTPS.
	c.SetCookie(sessionCookieName, token, int(sessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
	})
}

// LogoutHandler revokes the caller's session and clears the cookie.
func LogoutHandler(c *gin.Context) {
	if token, err := c.Cookie(sessionCookieName); err == nil {
		sessions.revoke(token)
	}
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}
