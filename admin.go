// admin.go - privacy-conscious visitor tracking and the operator dashboard
package main

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rohankashyap/portfolio/internal/contact"
	"github.com/rohankashyap/portfolio/internal/visitors"
)

const adminCookie = "admin_token"

func (s *server) initAdmin() {
	if !s.adminEnabled() {
		log.Println("Admin login disabled: set ADMIN_USERNAME and ADMIN_PASSWORD to enable it")
		return
	}
	log.Printf("Admin access available at: /admin/login")
	if gin.Mode() == gin.DebugMode {
		log.Printf("Admin token (dev only): %s", s.adminToken)
	}
	log.Println("Privacy: Visitor tracking enabled with hashed IP addresses")
}

func (s *server) adminEnabled() bool {
	return s.adminUser != "" && s.adminPass != ""
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Middleware to check admin authentication
func (s *server) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || !s.adminEnabled() || !secureEqual(token, s.adminToken) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Privacy-conscious visitor tracking middleware
func (s *server) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet ||
			strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/admin") ||
			strings.HasPrefix(path, "/favicon") ||
			path == "/healthz" {
			c.Next()
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		visit := visitors.Visit{
			HashedIP:  s.hasher.Hash(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
		}
		s.background.Add(1)
		go func() {
			defer s.background.Done()
			if err := s.visits.Record(context.Background(), visit); err != nil {
				log.Printf("Error recording visitor: %v", err)
			}
		}()
		c.Next()
	}
}

// Setup all admin routes
func (s *server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		if !s.adminEnabled() {
			c.HTML(http.StatusForbidden, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Admin login is not configured",
			})
			return
		}

		userOK := secureEqual(username, s.adminUser)
		passOK := secureEqual(password, s.adminPass)
		if userOK && passOK {
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", false, true)
			log.Printf("Admin login successful from %s", s.hasher.Hash(c.ClientIP()))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}

		log.Printf("Failed admin login attempt from %s", s.hasher.Hash(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(s.adminAuthMiddleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.visits.Stats(c.Request.Context())
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		msgs, err := s.messages.List()
		if err != nil {
			log.Printf("Error reading messages: %v", err)
		}

		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":        stats,
			"messageCount": len(msgs),
			"assets":       s.loader.Stats(),
		})
	})

	// JSON for scripts and HTMX polling
	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.visits.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"visitors": stats,
			"assets":   s.loader.Stats(),
		})
	})

	adminGroup.GET("/messages", func(c *gin.Context) {
		msgs, err := s.messages.List()
		if err != nil {
			log.Printf("Error reading messages: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to read messages",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-messages.html", gin.H{
			"messages": msgs,
		})
	})

	adminGroup.GET("/export/messages", func(c *gin.Context) {
		msgs, err := s.messages.List()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read messages"})
			return
		}
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", "attachment; filename=messages.csv")
		c.Status(http.StatusOK)
		if err := contact.WriteCSV(c.Writer, msgs); err != nil {
			log.Printf("Error exporting messages: %v", err)
		}
		log.Printf("Messages exported by %s", s.hasher.Hash(c.ClientIP()))
	})

	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		removed, err := s.visits.Cleanup(c.Request.Context(), visitorRetention)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": removed})
	})
}
