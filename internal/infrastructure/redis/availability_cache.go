package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// AvailabilityCache は上映回ごとの空席数キャッシュを管理する
// 空席数は予約・キャンセル・座席数変更のたびに無効化される
type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// GetCount は上映回の空席数をキャッシュから取得する
func (c *AvailabilityCache) GetCount(ctx context.Context, screeningID string) (int, error) {
	key := c.countKey(screeningID)
	val, err := c.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetCount は上映回の空席数をキャッシュに保存する
func (c *AvailabilityCache) SetCount(ctx context.Context, screeningID string, count int, ttl time.Duration) error {
	key := c.countKey(screeningID)
	err := c.client.Set(ctx, key, count, ttl).Err()
	if err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は上映回のキャッシュを無効化する
func (c *AvailabilityCache) Invalidate(ctx context.Context, screeningID string) error {
	key := c.countKey(screeningID)
	err := c.client.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) countKey(screeningID string) string {
	return fmt.Sprintf("screenings:available:%s", screeningID)
}
