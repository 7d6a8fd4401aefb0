package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
	"rollcall-roster/config"
	"rollcall-roster/models"
	"rollcall-roster/roster"
)

// RedisService keeps a roster snapshot in a Redis list, one
// "name,average" line per element, in roster order.
type RedisService struct {
	Client *redis.Client
	Key    string
}

// NewRedisService creates a new RedisService storing the roster under key
func NewRedisService(client *redis.Client, key string) *RedisService {
	return &RedisService{
		Client: client,
		Key:    key,
	}
}

// Location identifies the list for user-facing messages
func (s *RedisService) Location() string {
	return "redis list " + s.Key
}

// Save replaces the stored list with students
func (s *RedisService) Save(ctx context.Context, students []models.Student) error {
	lines := make([]interface{}, 0, len(students))
	for _, st := range students {
		lines = append(lines, roster.FormatLine(st))
	}

	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.Key)
		if len(lines) > 0 {
			pipe.RPush(ctx, s.Key, lines...)
		}
		return nil
	})
	if err != nil {
		log.Printf("Error saving roster to %s: %v", s.Key, err)
		return fmt.Errorf("failed to save roster to Redis: %w", err)
	}
	log.Printf("Saved %d students to redis key %s", len(students), s.Key)
	return nil
}

// Load reads the stored list. Malformed or out-of-range entries are
// skipped. A missing key loads as an empty roster.
func (s *RedisService) Load(ctx context.Context) ([]models.Student, error) {
	lines, err := s.Client.LRange(ctx, s.Key, 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []models.Student{}, nil
		}
		log.Printf("Error loading roster from %s: %v", s.Key, err)
		return nil, fmt.Errorf("failed to load roster from Redis: %w", err)
	}

	students := make([]models.Student, 0, len(lines))
	for i, line := range lines {
		st, ok := roster.ParseLine(line)
		if !ok {
			log.Printf("Skipping malformed entry %d in %s: %q", i, s.Key, line)
			continue
		}
		students = append(students, st)
	}
	return students, nil
}

// InitializeRedisClient creates a client from cfg and pings it
func InitializeRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", cfg.Addr, err)
	}

	log.Printf("Successfully connected to Redis DB %d", cfg.DB)
	return rdb, nil
}
