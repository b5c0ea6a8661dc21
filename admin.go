// admin.go - privacy-conscious visitor stats and admin dashboard
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iabhijais/portfolio/internal/theme"
	"go.uber.org/zap"
)

const adminCookie = "admin_token"

// adminAuth holds the per-process admin session token and the salt used to
// hash client addresses.
type adminAuth struct {
	token  string
	salt   string
	logger *zap.Logger
}

func newAdminAuth(logger *zap.Logger) *adminAuth {
	a := &adminAuth{
		token:  randomToken(),
		salt:   randomToken(),
		logger: logger,
	}
	logger.Info("admin access available", zap.String("path", "/admin/login"))
	if gin.Mode() == gin.DebugMode {
		logger.Debug("admin token (dev only)", zap.String("token", a.token))
	}
	return a
}

func randomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("generate admin token: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// hashIP returns a stable, salted, truncated hash of a client address.
func (a *adminAuth) hashIP(ip string) string {
	h := sha256.New()
	h.Write([]byte(ip + a.salt))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func (a *adminAuth) valid(token string) bool {
	return subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) == 1
}

// middleware redirects to the login page without a valid session cookie.
func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || !a.valid(token) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// adminCredentials falls back to development defaults when unset.
func (a *app) adminCredentials() (string, string) {
	user, pass := a.cfg.Admin.Username, a.cfg.Admin.Password
	if user == "" {
		user = "admin"
		if gin.Mode() == gin.DebugMode {
			a.logger.Warn("using default admin username, set ADMIN_USERNAME")
		}
	}
	if pass == "" {
		pass = "admin123"
		if gin.Mode() == gin.DebugMode {
			a.logger.Warn("using default admin password, set ADMIN_PASSWORD")
		}
	}
	return user, pass
}

func (a *app) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		mode := theme.ModeOr(c.Query("theme"), a.defaultTheme)
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":      "Privacy Policy",
			"theme":      mode.String(),
			"themeClass": mode.ClassName(),
			"retention":  a.cfg.Database.Retention.String(),
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")
		wantUser, wantPass := a.adminCredentials()

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(wantUser)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(wantPass)) == 1
		client := a.admin.hashIP(c.ClientIP())
		if !userOK || !passOK {
			a.logger.Warn("failed admin login attempt", zap.String("client", client))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}

		c.SetCookie(adminCookie, a.admin.token, 3600*24, "/admin", "", false, true)
		a.logger.Info("admin login successful", zap.String("client", client))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		a.logger.Info("admin logout", zap.String("client", a.admin.hashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(a.admin.middleware())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context(), time.Now())
		if err != nil {
			a.logger.Error("loading admin stats failed", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.store.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			a.logger.Error("loading visitors failed", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context(), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context(), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		a.logger.Info("admin stats exported", zap.String("client", a.admin.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		a.cleanup(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete"})
	})
}
