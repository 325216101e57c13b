package mock

import (
	"context"
	"sync"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var redisConnOnce sync.Once
var redisConn *Redis

// Redis is an in-process Redis server with a connected client.
type Redis struct {
	Client *redis.Client
	server *miniredis.Miniredis
}

func NewRedis() *Redis {
	if redisConn == nil {
		redisConnOnce.Do(
			func() {
				redisConn = openRedisConn()
			},
		)
	}

	return redisConn
}

func openRedisConn() *Redis {
	miniRedis, err := miniredis.Run()
	if err != nil {
		panic(err)
	}

	conn := redis.NewClient(
		&redis.Options{
			Addr: miniRedis.Addr(),
		},
	)

	return &Redis{Client: conn, server: miniRedis}
}

// Clear drops every key.
func (r *Redis) Clear() error {
	return r.Client.FlushAll(context.TODO()).Err()
}

// Keys lists the keys matching pattern.
func (r *Redis) Keys(pattern string) ([]string, error) {
	return r.Client.Keys(context.TODO(), pattern).Result()
}

// FastForward expires keys as if d had passed.
func (r *Redis) FastForward(d time.Duration) {
	r.server.FastForward(d)
}
