package db

import "github.com/redis/go-redis/v9"

// ConnectRedis returns nil when no address is configured, which disables caching.
func ConnectRedis(addr, password string) *redis.Client {
	if addr == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
}
