// Package leaderboard ranks users by their best typing speed.
package leaderboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	keyBestWPM = "leaderboard:wpm"
	keyNames   = "leaderboard:names"
)

type Entry struct {
	Rank    int
	UserID  string
	Name    string
	BestWPM float64
}

type Board interface {
	// Submit records wpm for userID unless a higher score is already stored.
	Submit(ctx context.Context, userID, name string, wpm float64) error
	// Rename updates the display name shown next to an existing entry.
	Rename(ctx context.Context, userID, name string) error
	Top(ctx context.Context, n int) ([]Entry, error)
}

// RedisBoard keeps scores in a sorted set and display names in a hash.
type RedisBoard struct {
	client redis.UniversalClient
}

var _ Board = (*RedisBoard)(nil)

func NewRedisBoard(client redis.UniversalClient) *RedisBoard {
	return &RedisBoard{client: client}
}

// Connect pings addr and returns a board backed by it.
func Connect(ctx context.Context, addr string) (*RedisBoard, func() error, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping error: %w", err)
	}
	return NewRedisBoard(client), client.Close, nil
}

func (b *RedisBoard) Submit(ctx context.Context, userID, name string, wpm float64) error {
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAddGT(ctx, keyBestWPM, redis.Z{Score: wpm, Member: userID})
		pipe.HSet(ctx, keyNames, userID, name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("leaderboard submit: %w", err)
	}
	return nil
}

func (b *RedisBoard) Rename(ctx context.Context, userID, name string) error {
	err := b.client.ZScore(ctx, keyBestWPM, userID).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("leaderboard rename: %w", err)
	}
	if err := b.client.HSet(ctx, keyNames, userID, name).Err(); err != nil {
		return fmt.Errorf("leaderboard rename: %w", err)
	}
	return nil
}

func (b *RedisBoard) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return []Entry{}, nil
	}

	zs, err := b.client.ZRevRangeWithScores(ctx, keyBestWPM, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard top: %w", err)
	}
	if len(zs) == 0 {
		return []Entry{}, nil
	}

	ids := make([]string, len(zs))
	for i, z := range zs {
		ids[i] = z.Member.(string)
	}

	names, err := b.client.HMGet(ctx, keyNames, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard names: %w", err)
	}

	entries := make([]Entry, len(zs))
	for i, z := range zs {
		name, _ := names[i].(string)
		entries[i] = Entry{Rank: i + 1, UserID: ids[i], Name: name, BestWPM: z.Score}
	}
	return entries, nil
}

// NopBoard is used when no redis address is configured.
type NopBoard struct{}

var _ Board = NopBoard{}

func (NopBoard) Submit(context.Context, string, string, float64) error { return nil }

func (NopBoard) Rename(context.Context, string, string) error { return nil }

func (NopBoard) Top(context.Context, int) ([]Entry, error) { return []Entry{}, nil }
