package main

import (
	"context"
	"io"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/rajivgeraev/swapify-api/internal/config"
	"github.com/rajivgeraev/swapify-api/internal/db"
	"github.com/rajivgeraev/swapify-api/internal/presence"
	"github.com/rajivgeraev/swapify-api/internal/services/address"
	"github.com/rajivgeraev/swapify-api/internal/services/cloudinary"
	"github.com/rajivgeraev/swapify-api/internal/services/notification"
	"github.com/rajivgeraev/swapify-api/internal/services/product"
	"github.com/rajivgeraev/swapify-api/internal/services/trade"
	"github.com/rajivgeraev/swapify-api/internal/services/user"
	"github.com/rajivgeraev/swapify-api/internal/utils"
	"github.com/rajivgeraev/swapify-api/internal/websocket"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем базу данных
	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer db.CloseDB()

	// Выбираем бэкенд реестра присутствия
	registry, err := newRegistry(cfg)
	if err != nil {
		log.Fatalf("❌ Ошибка при инициализации реестра присутствия: %v", err)
	}
	if closer, ok := registry.(io.Closer); ok {
		defer closer.Close()
	}

	jwtService := utils.NewJWTService(cfg.JWTSecret, cfg.JWTRefreshSecret)

	// WebSocket-менеджер работает на отдельном HTTP-порту
	wsManager := websocket.NewManager(registry)
	defer wsManager.Shutdown()

	// Ошибки обоих слушателей стекаются в канал: падение любого из них
	// завершает main через return, чтобы отработали defer
	serverErrors := make(chan error, 2)

	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", websocket.Handler(wsManager, jwtService))
		log.Printf("✅ WebSocket сервер запущен на порту %s", cfg.WSPort)
		serverErrors <- http.ListenAndServe(":"+cfg.WSPort, mux)
	}()

	// Диспетчер уведомлений: сохраняет в базу и отправляет онлайн-пользователям
	store := notification.NewPGStore()
	dispatcher := notification.NewDispatcher(store, registry, wsManager)

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Swapify API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Создаём сервисы
	userService := user.NewUserService(cfg, jwtService)
	addressService := address.NewAddressService(cfg, jwtService)
	productService := product.NewProductService(cfg, jwtService, dispatcher)
	tradeService := trade.NewTradeService(cfg, jwtService, dispatcher)
	notificationService := notification.NewNotificationService(cfg, jwtService, dispatcher, store)

	cloudinaryService, err := cloudinary.NewCloudinaryService(cfg, jwtService)
	if err != nil {
		log.Fatalf("❌ Ошибка при инициализации Cloudinary: %v", err)
	}

	// Регистрируем маршруты
	userService.SetupRoutes(app)
	addressService.SetupRoutes(app)
	productService.SetupRoutes(app)
	tradeService.SetupRoutes(app)
	notificationService.SetupRoutes(app)
	cloudinaryService.SetupRoutes(app)

	// Запускаем сервер
	go func() {
		log.Printf("✅ Swapify API запущен на порту %s", cfg.Port)
		serverErrors <- app.Listen(":" + cfg.Port)
	}()

	log.Printf("❌ Сервер остановлен: %v", <-serverErrors)
}

// newRegistry создает реестр присутствия согласно конфигурации
func newRegistry(cfg *config.Config) (presence.Registry, error) {
	if cfg.PresenceBackend == "redis" {
		log.Printf("✅ Реестр присутствия: Redis (%s)", cfg.RedisAddr)
		return presence.NewRedisRegistry(context.Background(), cfg.RedisAddr)
	}
	log.Println("✅ Реестр присутствия: in-memory")
	return presence.NewMemoryRegistry(), nil
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}
