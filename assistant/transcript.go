package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/smartfir/fir-filing-api/models"
)

// TranscriptStore keeps one chat transcript per session token in Redis.
// Transcripts grow without bound for the life of a session; they are removed
// only by Clear or logout.
type TranscriptStore struct {
	client *redis.Client
	prefix string
}

// NewTranscriptStore connects to Redis using the given URL
func NewTranscriptStore(redisURL string) (*TranscriptStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewTranscriptStoreWithClient(client), nil
}

// NewTranscriptStoreWithClient creates a store from an existing Redis client
func NewTranscriptStoreWithClient(client *redis.Client) *TranscriptStore {
	return &TranscriptStore{
		client: client,
		prefix: "chat:",
	}
}

func (s *TranscriptStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Append adds messages to the end of the session transcript
func (s *TranscriptStore) Append(ctx context.Context, sessionID string, messages ...models.ChatMessage) error {
	values := make([]interface{}, 0, len(messages))
	for _, m := range messages {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal chat message: %w", err)
		}
		values = append(values, data)
	}
	if err := s.client.RPush(ctx, s.key(sessionID), values...).Err(); err != nil {
		return fmt.Errorf("append transcript: %w", err)
	}
	return nil
}

// History returns the full session transcript in order
func (s *TranscriptStore) History(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	raw, err := s.client.LRange(ctx, s.key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	messages := make([]models.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var m models.ChatMessage
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("unmarshal chat message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// Clear removes the session transcript entirely
func (s *TranscriptStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *TranscriptStore) Close() error {
	return s.client.Close()
}
