package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "taskcrafter/docs"
	"taskcrafter/internal/config"
	"taskcrafter/internal/handler"
	"taskcrafter/internal/middleware"
	"taskcrafter/internal/model"
	"taskcrafter/internal/relay"
	"taskcrafter/internal/repository"
	"taskcrafter/internal/store"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Server struct {
	Engine *gin.Engine
	Store  *store.Store
	Config *config.Config

	saver   *repository.AsyncSaver
	relay   *relay.Client
	closeKV func() error
}

func Init(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	policy := store.MergePolicy(cfg.MergePolicy)
	if policy != store.MergeNone && policy != store.MergeLastWriteWins {
		return nil, fmt.Errorf("❌ unknown merge policy %q", cfg.MergePolicy)
	}

	// Storage
	kv, closeKV, err := repository.OpenKVStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to open storage: %w", err)
	}
	snapshots := repository.NewSnapshotRepository(kv)
	loaded := snapshots.Load(ctx)
	log.Printf("✅ Loaded %d tasks", len(loaded))
	saver := repository.NewAsyncSaver(snapshots)

	// Relay
	client := relay.NewClient(relay.ClientOptions{
		URL:        cfg.RelayURL,
		MaxRetries: cfg.RelayMaxRetries,
		RetryDelay: cfg.RelayRetryDelay,
	})

	opts := []store.Option{store.WithTasks(loaded)}
	if cfg.CycleCheck {
		opts = append(opts, store.WithCycleCheck())
	}
	tasks := store.New(saver, client, opts...)
	if policy == store.MergeLastWriteWins {
		client.Subscribe(func(u model.TaskUpdate) { tasks.ApplyRemote(u) })
	}

	// Setup Gin
	r := gin.Default()
	r.Use(middleware.CORS(cfg.ClientURL))

	handler.RegisterTaskRoutes(r, handler.NewTaskHandler(tasks), handler.NewQueryHandler(tasks))
	r.GET("/sync", handler.NewSyncHandler(client, cfg.MergePolicy).Status)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return &Server{
		Engine:  r,
		Store:   tasks,
		Config:  cfg,
		saver:   saver,
		relay:   client,
		closeKV: closeKV,
	}, nil
}

func (s *Server) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go s.saver.Run(ctx)
	go func() {
		if err := s.relay.Run(ctx); err != nil {
			log.Printf("⚠️  Relay disabled: %v. Changes stay local.", err)
		}
	}()

	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %s", err)
	}

	s.saver.Close()
	cancel()
	if err := s.closeKV(); err != nil {
		log.Printf("⚠️  Failed to close storage: %v", err)
	}

	log.Println("✅ Server exited properly")
}
