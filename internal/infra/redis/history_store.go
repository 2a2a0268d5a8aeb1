package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"mbti-quiz-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

// HistoryStore keeps finalized results in a Redis list, newest at the head.
// One key holds the whole ordered history.
type HistoryStore struct {
	client *redis.Client
	key    string
}

func NewHistoryStore(client *redis.Client, key string) *HistoryStore {
	if key == "" {
		key = "mbti:results"
	}
	return &HistoryStore{client: client, key: key}
}

// upsertResult replaces the entry whose encoding starts with ARGV[1] or pushes
// ARGV[2] to the head. It runs as one script so concurrent appends cannot
// duplicate an ID or overwrite a shifted index.
var upsertResult = redis.NewScript(`
local entries = redis.call('LRANGE', KEYS[1], 0, -1)
local prefix = ARGV[1]
for i, entry in ipairs(entries) do
	if string.sub(entry, 1, string.len(prefix)) == prefix then
		redis.call('LSET', KEYS[1], tostring(i - 1), ARGV[2])
		return i - 1
	end
end
redis.call('LPUSH', KEYS[1], ARGV[2])
return -1
`)

// Append overwrites an entry with the same ID in place, otherwise pushes to the head.
func (s *HistoryStore) Append(ctx context.Context, result domain.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	id, err := json.Marshal(result.ID)
	if err != nil {
		return fmt.Errorf("encode result id: %w", err)
	}
	// Result encodes its id first, so the prefix identifies the entry.
	prefix := `{"id":` + string(id) + `,`
	if err := upsertResult.Run(ctx, s.client, []string{s.key}, prefix, raw).Err(); err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

func (s *HistoryStore) LoadAll(ctx context.Context) ([]domain.Result, error) {
	entries, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	results := make([]domain.Result, 0, len(entries))
	for _, entry := range entries {
		var r domain.Result
		if err := json.Unmarshal([]byte(entry), &r); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *HistoryStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
