package tasks

import (
	"alfredoramos.mx/rescue-reporter/helpers"
	"alfredoramos.mx/rescue-reporter/notifications"
	"alfredoramos.mx/rescue-reporter/utils"
	"github.com/hibiken/asynq"
)

func RedisConnOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     utils.RedisAddress(),
		Password: utils.RedisPassword(),
		DB:       0,
	}
}

func NewClient(opt asynq.RedisConnOpt) *asynq.Client {
	return asynq.NewClient(opt)
}

func NewServer(opt asynq.RedisConnOpt) *asynq.Server {
	return asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)
}

func NewServeMux(mailer helpers.Mailer) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(notifications.TaskNotificationEmail, NewNotificationEmailHandler(mailer))

	return mux
}
