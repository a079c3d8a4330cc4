package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/adamspd/QuizTrack/utils"
)

const (
	TypeRecomputeRanks = "rank:recompute"
)

const (
	rankQueue      = "default"
	rankMaxRetry   = 3
	rankTimeout    = 60 * time.Second
	rankUniqueness = 30 * time.Second
)

// RankRecomputer does the actual work behind a rank:recompute task.
type RankRecomputer interface {
	Recompute(ctx context.Context) error
}

type JobManager struct {
	client    *asynq.Client
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

// NewJobManager builds the client, worker and scheduler for redisURL, a
// redis:// URL.
func NewJobManager(redisURL string) (*JobManager, error) {
	redisOpt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		Queues: map[string]int{
			rankQueue: 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			utils.LogError("Job failed: type=%s error=%v", task.Type(), err)
		}),
		Logger: &AsynqLogger{},
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger: &AsynqLogger{},
	})

	return &JobManager{
		client:    client,
		server:    server,
		scheduler: scheduler,
		mux:       asynq.NewServeMux(),
	}, nil
}

func (jm *JobManager) RegisterHandlers(ranker RankRecomputer) {
	jm.mux.HandleFunc(TypeRecomputeRanks, handleRecomputeRanks(ranker))
}

// ScheduleRankRecompute registers a periodic recompute, e.g. "@every 15m".
func (jm *JobManager) ScheduleRankRecompute(cronspec string) error {
	if cronspec == "" {
		return nil
	}
	entryID, err := jm.scheduler.Register(cronspec, asynq.NewTask(TypeRecomputeRanks, nil), rankTaskOptions()...)
	if err != nil {
		return fmt.Errorf("failed to schedule rank recompute: %w", err)
	}
	utils.LogJob("Scheduled %s with %q (entry %s)", TypeRecomputeRanks, cronspec, entryID)
	return nil
}

// Start runs the worker and scheduler. It returns once both are running.
func (jm *JobManager) Start() error {
	utils.LogStartup("Starting job queue worker...")
	if err := jm.server.Start(jm.mux); err != nil {
		return err
	}
	if err := jm.scheduler.Start(); err != nil {
		jm.server.Shutdown()
		return err
	}
	return nil
}

func (jm *JobManager) Stop() {
	utils.LogShutdown("Stopping job queue...")
	jm.scheduler.Shutdown()
	jm.server.Stop()
	jm.server.Shutdown()
	jm.client.Close()
}

// RequestRankRecompute enqueues a recompute. Requests arriving while one is
// already pending collapse into it.
func (jm *JobManager) RequestRankRecompute(ctx context.Context) error {
	info, err := jm.client.EnqueueContext(ctx, asynq.NewTask(TypeRecomputeRanks, nil), rankTaskOptions()...)
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			utils.LogJob("Rank recompute already queued")
			return nil
		}
		return fmt.Errorf("failed to enqueue rank recompute: %w", err)
	}

	utils.LogJob("Queued rank recompute: ID=%s queue=%s", info.ID, info.Queue)
	return nil
}

func rankTaskOptions() []asynq.Option {
	return []asynq.Option{
		asynq.Queue(rankQueue),
		asynq.MaxRetry(rankMaxRetry),
		asynq.Timeout(rankTimeout),
		asynq.Unique(rankUniqueness),
	}
}

func handleRecomputeRanks(ranker RankRecomputer) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		start := time.Now()
		utils.LogJob("Processing %s", task.Type())

		if err := ranker.Recompute(ctx); err != nil {
			return fmt.Errorf("rank recompute failed: %w", err)
		}

		utils.LogJob("Finished %s in %v", task.Type(), time.Since(start))
		return nil
	}
}

// AsynqLogger routes asynq's logging through the tagged log helpers.
type AsynqLogger struct{}

func (l *AsynqLogger) Debug(args ...interface{}) {
	utils.LogDebug("%s", fmt.Sprint(args...))
}

func (l *AsynqLogger) Info(args ...interface{}) {
	utils.LogJob("%s", fmt.Sprint(args...))
}

func (l *AsynqLogger) Warn(args ...interface{}) {
	utils.LogError("%s", fmt.Sprint(args...))
}

func (l *AsynqLogger) Error(args ...interface{}) {
	utils.LogError("%s", fmt.Sprint(args...))
}

func (l *AsynqLogger) Fatal(args ...interface{}) {
	utils.LogError("%s", fmt.Sprint(args...))
}
