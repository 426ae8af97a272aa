package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ErfanTavana/unischedule/config"
)

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("缓存未命中")

// Store 显示屏负载缓存的抽象接口
// 实现要求：Get 未命中时返回 ErrCacheMiss；Set 的 ttl 必须为正值
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ────────── Redis 实现 ──────────

// RedisStore 基于 Redis 的缓存实现，用于多实例部署
type RedisStore struct {
	rdb *goredis.Client
}

// NewRedisStore 创建 Redis 连接并执行 Ping 健康检查
func NewRedisStore(cfg *config.RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// Close 关闭 Redis 连接
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// ────────── 内存实现 ──────────

// MemoryStore 进程内缓存实现，单实例部署或本地开发使用
type MemoryStore struct {
	c *gocache.Cache
}

// NewMemoryStore 创建内存缓存，过期项每分钟清理一次
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		c: gocache.New(gocache.NoExpiration, time.Minute),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, ErrCacheMiss
	}
	return b, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.c.Set(key, value, ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.c.Delete(key)
	return nil
}
