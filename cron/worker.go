package cron

import (
	"context"
	"log"
	"time"

	"kree/config"
	proposalRepo "kree/database/repository/proposal"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeProposalExpire = "proposal:expire"

// expiryInterval is how often the pending-proposal sweep is enqueued.
const expiryInterval = 15 * time.Minute

// InitExpiryWorker runs the async worker and its periodic scheduler in the
// background. The sweep is a catch-up: reads already derive the expired
// status lazily, the sweep only persists it.
func InitExpiryWorker(proposals proposalRepo.ProposalRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeProposalExpire, handleExpiryTask(proposals))

	go monitorRedisConnection()
	go scheduleExpirySweeps(redisOpts)

	// Start async worker with retry logic.
	go func() {
		log.Println("[ExpiryWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ExpiryWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ExpiryWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// scheduleExpirySweeps enqueues the sweep task on a fixed interval.
func scheduleExpirySweeps(redisOpts asynq.RedisClientOpt) {
	client := asynq.NewClient(redisOpts)
	defer client.Close()

	ticker := time.NewTicker(expiryInterval)
	defer ticker.Stop()

	enqueue := func() {
		task := asynq.NewTask(TypeProposalExpire, nil)
		if _, err := client.Enqueue(task, asynq.MaxRetry(3)); err != nil {
			zap.L().Warn("failed to enqueue proposal expiry sweep", zap.Error(err))
		}
	}

	enqueue()
	for range ticker.C {
		enqueue()
	}
}

func handleExpiryTask(proposals proposalRepo.ProposalRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		expired, err := proposals.ExpirePending(time.Now())
		if err != nil {
			zap.L().Error("proposal expiry sweep failed", zap.Error(err))
			return err
		}
		if expired > 0 {
			zap.L().Info("proposal expiry sweep", zap.Int64("expired", expired))
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ExpiryWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
