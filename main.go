package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"sinapsis/config"
	"sinapsis/mailer"
	"sinapsis/models"
	"sinapsis/providers/deepseek"
	"sinapsis/services"
	"sinapsis/storage"
	"sinapsis/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	nameCookie  = "sinapsis_name"
	emailCookie = "sinapsis_email"
	// Ein Jahr; die Identität ist pro Browser gemerkt, nicht pro Konto.
	cookieMaxAge = 365 * 24 * 60 * 60
)

var (
	reactionsCounter     prometheus.Counter
	commentsCounter      prometheus.Counter
	registrationsCounter prometheus.Counter
	notificationsCounter *prometheus.CounterVec
)

func init() {
	reactionsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reactions_submitted_total",
		Help: "Total number of paragraph reactions submitted.",
	})
	commentsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "comments_submitted_total",
		Help: "Total number of public comments accepted.",
	})
	registrationsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "symposium_registrations_total",
		Help: "Total number of symposium registrations.",
	})
	notificationsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "author_notifications_total",
		Help: "Author notification attempts by disposition.",
	}, []string{"status"})
	prometheus.MustRegister(reactionsCounter, commentsCounter, registrationsCounter, notificationsCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	logging.Info("Running database auto-migration...")
	db.AutoMigrate(&models.Article{}, &models.Reaction{}, &models.Intervention{},
		&models.BibliographyReaction{}, &models.SymposiumContact{})

	// Setup Services
	contentStore := store.New(db, logging)
	if gin.Mode() == gin.DebugMode {
		seedDemoArticles(contentStore, logging)
	}
	searchProvider := deepseek.NewFetcher(cfg, logging)
	defer searchProvider.Close()
	notifier := mailer.NewMailer(cfg, logging)

	searchService := services.NewSearchService(contentStore, searchProvider, cfg.CatalogLimit, logging)
	commentService := services.NewCommentService(contentStore, notifier, logging)
	commentService.OnDisposition = func(d mailer.Disposition) {
		notificationsCounter.WithLabelValues(string(d.Status)).Inc()
	}
	registrationService := services.NewRegistrationService(contentStore, logging)
	dashboardService := services.NewDashboardService(contentStore, logging)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	// Falsche Methode soll 405 melden, nicht 404 (Notification-Endpunkt ist POST-only).
	router.HandleMethodNotAllowed = true
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Setup Routes
	setupCatalogRoutes(router, searchService, logging)
	setupArticleRoutes(router, contentStore, commentService, logging)
	setupSymposiumRoutes(router, registrationService, logging)
	setupDashboardRoutes(router, cfg, dashboardService)
	setupNotificationRoutes(router, notifier)
	setupEditorialRoutes(router, cfg, contentStore, logging)

	// Setup Cron: nächtlicher Report-Upload nach S3
	if cfg.ReportUploadEnabled() {
		s3Client, err := storage.NewS3Client(cfg)
		if err != nil {
			logging.Fatal("S3 client creation failed", zap.Error(err))
		}
		cronScheduler := cron.New()
		cronScheduler.AddFunc(cfg.CronSchedule, func() {
			logging.Info("Running scheduled report upload...")
			summary := dashboardService.Load()
			report := dashboardService.Report(summary)
			key := fmt.Sprintf("reporte-sinapsis-%s.txt", time.Now().UTC().Format("2006-01-02"))
			link, err := storage.UploadReport(s3Client, cfg.ReportS3Bucket, key, []byte(report), cfg)
			if err != nil {
				logging.Error("Report upload failed", zap.Error(err))
			} else {
				logging.Info("Report uploaded", zap.String("link", link))
			}
		})
		cronScheduler.Start()
	} else {
		logging.Info("Report-Upload deaktiviert (S3-Konfiguration unvollständig).")
	}

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

// setupCatalogRoutes konfiguriert die Startseite: Katalog-Liste und Suche.
func setupCatalogRoutes(router *gin.Engine, search *services.SearchService, log *zap.Logger) {
	// GET /?q=... — leere Query liefert die aktuelle Liste, sonst die Suchkaskade
	router.GET("/", func(c *gin.Context) {
		results, err := search.Search(c.Request.Context(), c.Query("q"))
		if err != nil {
			log.Error("Catalog listing failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"articles": results})
	})
}

func setupArticleRoutes(router *gin.Engine, contentStore *store.Store, comments *services.CommentService, log *zap.Logger) {
	rg := router.Group("/articles")

	// GET - Detailansicht eines Artikels als View-Modell
	rg.GET("/:id", func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
			return
		}
		article, err := contentStore.ArticleByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Artículo no encontrado"})
				return
			}
			log.Error("DB error fetching article", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		view := services.BuildArticleView(article)

		// Gemerkte Identität aus dem Browser zurückspielen (Prefill)
		name, _ := c.Cookie(nameCookie)
		email, _ := c.Cookie(emailCookie)
		c.JSON(http.StatusOK, gin.H{
			"article":   view,
			"commenter": gin.H{"name": name, "email": email},
		})
	})

	// POST - Absatz-Reaktion, append-only mit Quittung
	rg.POST("/:id/reactions", func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
			return
		}
		var req struct {
			Kind      string `json:"kind" binding:"required"`
			Excerpt   string `json:"excerpt"`
			UserName  string `json:"user_name"`
			UserEmail string `json:"user_email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if !validReactionKind(req.Kind) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown reaction kind"})
			return
		}
		reaction := &models.Reaction{
			ArticleID: id,
			Kind:      req.Kind,
			Excerpt:   req.Excerpt,
			UserName:  services.DisplayName(req.UserName),
			UserEmail: req.UserEmail,
		}
		if err := contentStore.AddReaction(reaction); err != nil {
			log.Error("Failed to save reaction", zap.Uint("article_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error registrando reacción"})
			return
		}
		reactionsCounter.Inc()
		c.JSON(http.StatusCreated, gin.H{"message": "Reacción enviada"})
	})

	// POST - Bibliografie-Etikett, gleiches Append-and-acknowledge-Muster
	rg.POST("/:id/bibliography-reactions", func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
			return
		}
		var req struct {
			Reference string `json:"reference" binding:"required"`
			Tag       string `json:"tag" binding:"required"`
			UserName  string `json:"user_name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Tag != models.BibliographyTagRelevant && req.Tag != models.BibliographyTagBiased {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown bibliography tag"})
			return
		}
		reaction := &models.BibliographyReaction{
			ArticleID: id,
			Reference: req.Reference,
			Tag:       req.Tag,
			UserName:  services.DisplayName(req.UserName),
		}
		if err := contentStore.AddBibliographyReaction(reaction); err != nil {
			log.Error("Failed to save bibliography reaction", zap.Uint("article_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error registrando etiqueta"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Registrado"})
	})

	// POST - Öffentlicher Kommentar mit Autoren-Benachrichtigung
	rg.POST("/:id/comments", func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
			return
		}
		var input services.CommentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		article, err := contentStore.ArticleByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Artículo no encontrado"})
				return
			}
			log.Error("DB error fetching article for comment", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		if err := comments.Submit(c.Request.Context(), article, input); err != nil {
			if errors.Is(err, services.ErrMissingFields) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Complete nombre, correo y comentario"})
				return
			}
			log.Error("Failed to save comment", zap.Uint("article_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al enviar comentario"})
			return
		}

		// Identität erst nach bestätigtem Erfolg im Browser merken
		c.SetCookie(nameCookie, input.Name, cookieMaxAge, "/", "", false, false)
		c.SetCookie(emailCookie, input.Email, cookieMaxAge, "/", "", false, false)
		commentsCounter.Inc()
		c.JSON(http.StatusCreated, gin.H{"message": "Comentario enviado. Gracias."})
	})
}

func setupSymposiumRoutes(router *gin.Engine, registration *services.RegistrationService, log *zap.Logger) {
	rg := router.Group("/symposium")

	// POST - Anmeldung: Upsert per E-Mail, danach genau ein Logeintrag.
	rg.POST("/registrations", func(c *gin.Context) {
		var input services.RegistrationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if err := registration.Register(input); err != nil {
			if errors.Is(err, services.ErrMissingRegistrationFields) {
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
				return
			}
			log.Error("Failed to register symposium contact", zap.String("email", input.Email), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error"})
			return
		}

		registrationsCounter.Inc()
		c.JSON(http.StatusCreated, gin.H{"status": "ok", "message": "Inscripción registrada"})
	})
}

func setupDashboardRoutes(router *gin.Engine, cfg *config.Config, dashboard *services.DashboardService) {
	rg := router.Group("/dashboard")
	rg.Use(apiKeyAuthMiddleware(cfg))

	// GET - Kennzahlen + letzte Interventionen; Teil-Ausfälle liefern 200 mit Hinweis
	rg.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, dashboard.Load())
	})

	// GET - Text-Report als Download
	rg.GET("/report", func(c *gin.Context) {
		report := dashboard.Report(dashboard.Load())
		c.Header("Content-Disposition", `attachment; filename="reporte-sinapsis.txt"`)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report))
	})
}

// setupNotificationRoutes konfiguriert den POST-only Benachrichtigungs-Endpunkt.
func setupNotificationRoutes(router *gin.Engine, notifier *mailer.Mailer) {
	router.POST("/notifications/comment", func(c *gin.Context) {
		var req struct {
			ArticleID   uint   `json:"article_id"`
			Comment     string `json:"comment" binding:"required"`
			AuthorEmail string `json:"author_email"`
			AuthorName  string `json:"author_name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		disposition := notifier.SendCommentNotification(c.Request.Context(), mailer.CommentNotification{
			ArticleID:   req.ArticleID,
			Comment:     req.Comment,
			AuthorEmail: req.AuthorEmail,
			AuthorName:  req.AuthorName,
		})
		notificationsCounter.WithLabelValues(string(disposition.Status)).Inc()

		switch disposition.Status {
		case mailer.StatusNotConfigured:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "mailer_not_configured"})
		case mailer.StatusFailed:
			c.JSON(http.StatusBadGateway, gin.H{"error": "send_failed", "info": disposition.Detail})
		case mailer.StatusSkipped:
			c.JSON(http.StatusOK, gin.H{"status": "no_author_email"})
		default:
			c.JSON(http.StatusOK, gin.H{"status": "sent"})
		}
	})
}

// setupEditorialRoutes konfiguriert den redaktionellen Artikel-Eingang (API-Key).
func setupEditorialRoutes(router *gin.Engine, cfg *config.Config, contentStore *store.Store, log *zap.Logger) {
	rg := router.Group("/articles")
	rg.Use(apiKeyAuthMiddleware(cfg))

	rg.POST("", func(c *gin.Context) {
		var article models.Article
		if err := c.ShouldBindJSON(&article); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if article.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		if err := contentStore.CreateArticle(&article); err != nil {
			log.Error("Failed to create article", zap.String("title", article.Title), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create article"})
			return
		}
		log.Info("Article created", zap.Uint("id", article.ID), zap.String("title", article.Title))
		c.JSON(http.StatusCreated, article)
	})
}

// parseID liest eine Artikel-ID aus einem Pfadparameter.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

func validReactionKind(kind string) bool {
	switch kind {
	case models.ReactionInteresting, models.ReactionDebatable, models.ReactionQuestion:
		return true
	}
	return false
}

// articleSeedStore sind die vom Seeding benötigten Store-Zugriffe.
type articleSeedStore interface {
	CountArticles() (int64, error)
	CreateArticle(article *models.Article) error
}

// seedDemoArticles legt Demo-Inhalte an, wenn der Katalog leer ist. Läuft nur
// im Debug-Modus; produktive Inhalte kommen über den Editorial-Endpunkt.
func seedDemoArticles(s articleSeedStore, logger *zap.Logger) {
	count, err := s.CountArticles()
	if err != nil {
		logger.Warn("Failed to count articles for seeding", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}
	articles := []models.Article{
		{
			Title:       "Geopolítica del ciberespacio",
			Author:      "Ana Torres",
			Affiliation: "UNAM",
			AuthorEmail: "ana.torres@example.edu",
			Abstract:    "Una revisión de la soberanía digital en América Latina.",
			Body:        "La disputa por la infraestructura de red redefine fronteras.\n\nLos Estados responden con regulación y con inversión propia.",
		},
		{
			Title:    "Ética de los modelos generativos",
			Author:   "Luis Prada",
			Abstract: "Criterios editoriales frente a textos generados por máquinas.",
			Body:     "La autoría difusa obliga a repensar la revisión por pares.",
		},
	}
	for i := range articles {
		if err := s.CreateArticle(&articles[i]); err != nil {
			logger.Warn("Failed to seed demo article", zap.String("title", articles[i].Title), zap.Error(err))
			return
		}
	}
	logger.Info("Demo articles seeded.", zap.Int("count", len(articles)))
}
