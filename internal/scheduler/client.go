package scheduler

import (
	"crypto/tls"
	"fmt"
	"time"

	"indiamart_bridge/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// NewPeriodicScheduler builds an asynq scheduler with the fetch task
// registered at the configured interval.
func NewPeriodicScheduler(cfg config.SchedulerConfig) (*asynq.Scheduler, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	sched := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Location: time.Local,
	})

	spec := fmt.Sprintf("@every %s", cfg.GetFetchInterval())
	if _, err := sched.Register(spec, NewFetchLeadsTask(), asynq.Queue(cfg.GetAsynqQueueName())); err != nil {
		return nil, fmt.Errorf("register fetch task: %w", err)
	}

	return sched, nil
}

func redisClientOpt(cfg config.SchedulerConfig) (asynq.RedisClientOpt, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return asynq.RedisClientOpt{}, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if cfg.GetRedisTLSInsecure() {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if cfg.GetRedisTLSInsecure() {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
