package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/quiz-builder-api/internal/authoring"
	"github.com/yourusername/quiz-builder-api/internal/config"
	"github.com/yourusername/quiz-builder-api/internal/handler"
	"github.com/yourusername/quiz-builder-api/internal/middleware"
	pgRepo "github.com/yourusername/quiz-builder-api/internal/repository/postgres"
	"github.com/yourusername/quiz-builder-api/internal/service"
	"github.com/yourusername/quiz-builder-api/internal/webui"
	"github.com/yourusername/quiz-builder-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем репозитории и сервисы
	quizRepo := pgRepo.NewQuizRepo(db)
	quizService := service.NewQuizService(quizRepo)

	// Контекст для корректного завершения фоновых горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Хранилище черновиков конструктора с периодической очисткой
	draftTTL := time.Duration(cfg.Authoring.DraftTTLMinutes) * time.Minute
	draftStore := authoring.NewDraftStore(draftTTL)
	go draftStore.RunCleanup(ctx, draftTTL/2)

	// Инициализируем обработчики
	quizHandler := handler.NewQuizHandler(quizService)
	webHandler := webui.NewHandler(quizService, draftStore)

	// Rate limiting опционален: без Redis сервис работает без ограничений
	writeLimit := gin.HandlerFunc(func(c *gin.Context) { c.Next() })
	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Redis недоступен, rate limiting отключен: %v", err)
	} else {
		rateLimiter := middleware.NewRateLimiter(redisClient)
		writeLimit = rateLimiter.Limit(middleware.DefaultWriteRateLimitConfig())
		log.Println("Successfully connected to Redis")
	}

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		// Production: не доверять прокси-заголовкам
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	allowOrigins := cfg.CORS.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		quiz := api.Group("/quiz")
		{
			quiz.GET("", quizHandler.ListQuizzes)
			quiz.POST("", writeLimit, quizHandler.CreateQuiz)

			// Группа маршрутов, требующих quizID
			quizWithID := quiz.Group("/:id")
			quizWithID.Use(middleware.ExtractUintParam("id", "quizID"))
			{
				quizWithID.GET("", quizHandler.GetQuiz)
				quizWithID.GET("/export", quizHandler.ExportQuiz)
				quizWithID.DELETE("", writeLimit, quizHandler.DeleteQuiz)
			}
		}
	}

	// Страницы web-интерфейса (список, просмотр, конструктор)
	webHandler.RegisterRoutes(router)

	// HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// После получения сигнала SIGINT или SIGTERM вызываем cancel() для завершения горутин
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
