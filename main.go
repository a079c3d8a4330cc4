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

	"github.com/adamspd/QuizTrack/auth"
	"github.com/adamspd/QuizTrack/config"
	"github.com/adamspd/QuizTrack/db"
	"github.com/adamspd/QuizTrack/handlers"
	"github.com/adamspd/QuizTrack/jobs"
	"github.com/adamspd/QuizTrack/models"
	"github.com/adamspd/QuizTrack/quiz"
	"github.com/adamspd/QuizTrack/utils"
)

func main() {
	// Set up logging with timestamps
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	utils.LogStartup("QuizTrack API starting...")

	cfg := config.Load()

	database, err := db.InitDB(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize database: %v", err)
	}

	if err := bootstrapAdmin(context.Background(), database, cfg); err != nil {
		log.Fatalf("[FATAL] Failed to bootstrap admin: %v", err)
	}

	var sessions auth.SessionStore
	ranker := quiz.NewRanker(database)
	var ranks quiz.RankRefresher = quiz.InlineRankRefresher{Ranker: ranker}
	var jobManager *jobs.JobManager

	if cfg.UsesRedis() {
		redisSessions, err := auth.NewRedisSessionStore(context.Background(), cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			log.Fatalf("[FATAL] Failed to connect session store: %v", err)
		}
		sessions = redisSessions

		jobManager, err = jobs.NewJobManager(cfg.RedisURL)
		if err != nil {
			log.Fatalf("[FATAL] Failed to create job manager: %v", err)
		}
		jobManager.RegisterHandlers(ranker)
		if err := jobManager.ScheduleRankRecompute(cfg.RankRecomputeCron); err != nil {
			log.Fatalf("[FATAL] %v", err)
		}
		if err := jobManager.Start(); err != nil {
			log.Fatalf("[FATAL] Failed to start job queue: %v", err)
		}
		ranks = jobManager
	} else {
		utils.LogStartup("REDIS_URL not set: in-memory sessions, inline rank recomputation")
		sessions = auth.NewMemorySessionStore(cfg.SessionTTL)
	}

	gate := auth.ContextGate{}

	utils.LogStartup("Setting up API routes...")
	router := handlers.NewRouter(handlers.Deps{
		Users:    database,
		Sessions: sessions,
		Recorder: quiz.NewRecorder(gate, database, database, database, ranks),
		Progress: quiz.NewProgressService(gate, database, database, database),
		Catalog:  quiz.NewCatalogService(gate, database),
		Reports:  quiz.NewReportService(gate, database, database, database, database, ranks),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Set up graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		utils.LogStartup("Server ready to accept connections at http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] Server failed to start: %v", err)
		}
	}()

	<-stop
	utils.LogShutdown("Received shutdown signal, draining connections...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		utils.LogError("HTTP shutdown error: %v", err)
	}

	if jobManager != nil {
		jobManager.Stop()
	}
	if err := sessions.Close(); err != nil {
		utils.LogError("Error closing session store: %v", err)
	}
	if err := database.Close(); err != nil {
		utils.LogError("Error closing database: %v", err)
	} else {
		utils.LogShutdown("Database connection closed successfully")
	}
}

// bootstrapAdmin creates the configured admin account when no admin exists.
func bootstrapAdmin(ctx context.Context, database *db.DB, cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	admins, err := database.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if admins > 0 {
		utils.LogStartup("Admin account already present, skipping bootstrap")
		return nil
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin := &models.User{
		ID:        utils.NewID(),
		Name:      "Administrator",
		Email:     cfg.AdminEmail,
		Role:      models.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	}
	if err := database.CreateUser(ctx, admin, hash); err != nil {
		return err
	}

	utils.LogStartup("Bootstrapped admin account %s", admin.Email)
	return nil
}
