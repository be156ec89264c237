package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rohankashyap/portfolio/internal/assets"
	"github.com/rohankashyap/portfolio/internal/config"
	"github.com/rohankashyap/portfolio/internal/contact"
	"github.com/rohankashyap/portfolio/internal/content"
	"github.com/rohankashyap/portfolio/internal/render"
	"github.com/rohankashyap/portfolio/internal/visitors"
)

// visitorRetention is how long page views are kept.
const visitorRetention = 365 * 24 * time.Hour

type server struct {
	renderer *render.Renderer
	loader   interface{ Stats() assets.Stats }
	messages *contact.Store
	notifier contact.Notifier
	visits   *visitors.Store
	hasher   *visitors.Hasher

	adminUser  string
	adminPass  string
	adminToken string

	// background tracks tracking and notification goroutines.
	background sync.WaitGroup
}

func main() {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "portfolio.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	portfolio, err := content.Load(cfg.ContentFile)
	if err != nil {
		log.Fatalf("Failed to load content: %v", err)
	}

	loader := assets.New(&http.Client{}, cfg.FetchTimeout)
	renderer, err := render.New(portfolio, loader, render.Options{
		AvatarURL:           cfg.AvatarURL,
		AboutAnimationURL:   cfg.AboutAnimationURL,
		ContactAnimationURL: cfg.ContactAnimationURL,
		BackgroundAnimation: cfg.BackgroundAnimation,
	})
	if err != nil {
		log.Fatalf("Failed to build renderer: %v", err)
	}

	visits, err := visitors.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open visitor database: %v", err)
	}
	defer visits.Close()

	var notifier contact.Notifier
	if cfg.SMTPConfigured() {
		notifier = &contact.SMTPNotifier{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			To:   cfg.NotifyAddress(),
		}
		log.Printf("Contact notifications will be sent to %s", cfg.NotifyAddress())
	}

	s, err := newServer(renderer, loader, contact.NewStore(cfg.MessagesPath), notifier, visits)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	s.adminUser, s.adminPass = cfg.AdminUsername, cfg.AdminPassword
	s.initAdmin()

	go func() {
		removed, err := visits.Cleanup(context.Background(), visitorRetention)
		if err != nil {
			log.Printf("Error cleaning up old visitor data: %v", err)
		} else if removed > 0 {
			log.Printf("Privacy cleanup: Removed %d visitor records older than 12 months", removed)
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Portfolio listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	s.background.Wait()
}

func newServer(renderer *render.Renderer, loader interface{ Stats() assets.Stats }, messages *contact.Store, notifier contact.Notifier, visits *visitors.Store) (*server, error) {
	hasher, err := visitors.NewHasher()
	if err != nil {
		return nil, err
	}
	token, err := visitors.RandomToken()
	if err != nil {
		return nil, err
	}
	return &server{
		renderer:   renderer,
		loader:     loader,
		messages:   messages,
		notifier:   notifier,
		visits:     visits,
		hasher:     hasher,
		adminToken: token,
	}, nil
}

func (s *server) routes() *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(s.renderer.Templates())
	r.StaticFS("/static", s.renderer.Static())
	r.Use(s.visitorTrackingMiddleware())

	// Home page route
	r.GET("/", func(c *gin.Context) {
		s.renderPage(c, http.StatusOK, nil)
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// HTMX Contact form endpoint - returns just the form HTML
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact-form.html", nil)
	})

	r.POST("/contact", s.handleContact)

	s.setupAdminRoutes(r)
	return r
}

func (s *server) renderPage(c *gin.Context, code int, status *render.Status) {
	c.HTML(code, "index.html", s.renderer.View(c.Request.Context(), status))
}

// handleContact stores one submission. HTMX requests get a fragment back;
// plain form posts get the whole page with a status banner.
func (s *server) handleContact(c *gin.Context) {
	msg := contact.Message{
		Name:    c.PostForm("name"),
		Email:   c.PostForm("email"),
		Message: c.PostForm("message"),
	}.Normalize()
	htmx := c.GetHeader("HX-Request") == "true"

	if err := s.messages.Append(msg); err != nil {
		log.Printf("Error saving contact message: %v", err)
		if htmx {
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": render.FailureMessage,
			})
			return
		}
		s.renderPage(c, http.StatusInternalServerError, &render.Status{Message: render.FailureMessage})
		return
	}

	if s.notifier != nil {
		s.background.Add(1)
		go func() {
			defer s.background.Done()
			if err := s.notifier.Notify(msg); err != nil {
				log.Printf("Error sending contact notification: %v", err)
			}
		}()
	}

	if htmx {
		c.Header("HX-Trigger", "contact-saved")
		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": render.SuccessMessage,
		})
		return
	}
	s.renderPage(c, http.StatusOK, &render.Status{OK: true, Message: render.SuccessMessage})
}
