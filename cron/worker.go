package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"therapia/config"
	"therapia/models"
	"therapia/services/notification"
	"therapia/services/scheduling"

	"github.com/hibiken/asynq"
)

// InitReminderWorker runs the async reminder worker in background.
func InitReminderWorker(notifier notification.Notifier) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(scheduling.TypeAppointmentRemind, handleReminderTask(notifier))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)
				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// NewReminderClient returns the asynq client the scheduler enqueues through.
func NewReminderClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
}

func handleReminderTask(notifier notification.Notifier) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		body := fmt.Sprintf("Your appointment on %s at %s is coming up.", p.Date, p.TimeLabel)
		if err := notifier.NotifyUser(ctx, p.UserID, "Upcoming appointment", body); err != nil {
			log.Printf("[ReminderHandler] failed to notify user %s: %v", p.UserID, err)
			return err
		}
		body = fmt.Sprintf("You have an appointment on %s at %s.", p.Date, p.TimeLabel)
		if err := notifier.NotifyProvider(ctx, p.ProviderID, "Upcoming appointment", body); err != nil {
			log.Printf("[ReminderHandler] failed to notify provider %s: %v", p.ProviderID, err)
		}
		return nil
	}
}
