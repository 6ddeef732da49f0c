package main

import (
	"context"
	"log"

	firebase "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"pasarsosmed/internal/adapter/api"
	"pasarsosmed/internal/adapter/api/handler"
	apimiddleware "pasarsosmed/internal/adapter/api/middleware"
	"pasarsosmed/internal/adapter/api/router"
	adapterrepo "pasarsosmed/internal/adapter/repository"
	fbinfra "pasarsosmed/internal/infrastructure/firebase"
	"pasarsosmed/internal/infrastructure/storage"
	ws "pasarsosmed/internal/infrastructure/websocket"
	"pasarsosmed/internal/usecase"
	"pasarsosmed/pkg/config"
	"pasarsosmed/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:   cfg.FirebaseProject,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Firebase app: %v", err)
	}

	authClient, err := fbinfra.NewAuthClient(ctx, app)
	if err != nil {
		log.Fatalf("Failed to initialize auth client: %v", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	dbClient, err := app.Database(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Realtime Database client: %v", err)
	}

	gcsClient, err := storage.NewGCSClient(ctx, cfg.StorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}

	// Repositories
	chatRepo := adapterrepo.NewRTDBChatRepository(dbClient)
	userRepo := adapterrepo.NewFirestoreUserRepository(firestoreClient)
	roleRepo := adapterrepo.NewFirestoreRoleRepository(firestoreClient)
	productRepo := adapterrepo.NewFirestoreProductRepository(firestoreClient)
	categoryRepo := adapterrepo.NewFirestoreCategoryRepository(firestoreClient)

	// Infrastructure
	wsManager := ws.NewManager()
	wsManager.Start(ctx)

	// Use cases
	keys := usecase.NewRoomKeyResolver(cfg.ChatGeneralRoomReuse)
	roles := usecase.NewRoleProvider(chatRepo, userRepo, roleRepo)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, keys, wsManager)
	purchaseUseCase := usecase.NewPurchaseRequestUseCase(chatUseCase, userRepo)
	escrowUseCase := usecase.NewEscrowUseCase(chatUseCase, userRepo, roles)
	authUseCase := usecase.NewAuthUseCase(authClient, userRepo)
	userUseCase := usecase.NewUserUseCase(userRepo)
	productUseCase := usecase.NewProductUseCase(productRepo, categoryRepo, roles)
	categoryUseCase := usecase.NewCategoryUseCase(categoryRepo, roles)

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.Setup(e, router.Handlers{
		Health:    handler.NewHealthHandler(version),
		Auth:      handler.NewAuthHandler(authUseCase),
		User:      handler.NewUserHandler(userUseCase),
		Chat:      handler.NewChatHandler(chatUseCase, purchaseUseCase),
		Escrow:    handler.NewEscrowHandler(escrowUseCase),
		Product:   handler.NewProductHandler(productUseCase),
		Category:  handler.NewCategoryHandler(categoryUseCase),
		File:      handler.NewFileHandler(gcsClient, wsManager),
		WebSocket: handler.NewWebSocketHandler(wsManager, chatUseCase),
	}, router.Middlewares{
		Auth: apimiddleware.NewAuthMiddleware(authClient),
		Role: apimiddleware.NewRoleMiddleware(roles),
	})

	logger.Info("Starting server on port %s (%s)", cfg.ServerPort, cfg.Environment)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
