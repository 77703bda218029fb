package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// OpenRedis connects and pings within five seconds.
func OpenRedis(ctx context.Context, opt Options, log logrus.FieldLogger) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: opt.Addr, Password: opt.Password, DB: opt.DB})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	log.WithFields(logrus.Fields{"addr": opt.Addr, "db": opt.DB}).Info("redis: connected")
	return r, nil
}
