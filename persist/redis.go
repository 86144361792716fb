package persist

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV backs the light tier with Redis.
type RedisKV struct {
	Conn *redis.Client
}

func NewRedisKV(conn *redis.Client) *RedisKV {
	return &RedisKV{Conn: conn}
}

func (r *RedisKV) Set(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Println("RedisKV marshal error for", key, ":", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Conn.Set(ctx, key, data, 0).Err(); err != nil {
		log.Println("RedisKV set error for", key, ":", err)
	}
}

func (r *RedisKV) Get(key string, out any) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	data, err := r.Conn.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Println("RedisKV get error for", key, ":", err)
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Println("RedisKV unmarshal error for", key, ":", err)
		return false
	}
	return true
}
