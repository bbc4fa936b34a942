package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v9"
	"github.com/johnewart/go-clubmember/club"
)

type RedisStore struct {
	MemberStore
	client *redis.Client
	key    string
}

func NewRedisMemberStore(redisHostPort string, clubName string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr: redisHostPort,
	})

	return NewRedisMemberStoreWithClient(client, clubName)
}

func NewRedisMemberStoreWithClient(client *redis.Client, clubName string) *RedisStore {
	return &RedisStore{
		client: client,
		key:    MembersKey(clubName),
	}
}

func MembersKey(clubName string) string {
	return "club:" + clubName + ":members"
}

func (r *RedisStore) Healthy(ctx context.Context) bool {
	if _, err := r.client.Ping(ctx).Result(); err != nil {
		return false
	} else {
		return true
	}
}

func (r *RedisStore) GetMembers(ctx context.Context) (club.Members, error) {
	return readMembers(ctx, r.client, r.key)
}

func (r *RedisStore) PutMembers(ctx context.Context, members club.Members) error {
	if payload, err := encodeMembers(members); err != nil {
		return err
	} else {
		return r.client.Set(ctx, r.key, payload, 0).Err()
	}
}

// WithinTransaction watches the key and writes with MULTI/EXEC. A concurrent write to
// the key aborts the transaction with redis.TxFailedErr.
func (r *RedisStore) WithinTransaction(ctx context.Context, fn func(MemberStore) error) error {
	return r.client.Watch(ctx, func(tx *redis.Tx) error {
		staged := &redisTxStore{tx: tx, key: r.key}
		if err := fn(staged); err != nil {
			return err
		}
		if !staged.dirty {
			return nil
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key, staged.payload, 0)
			return nil
		})
		return err
	}, r.key)
}

type redisTxStore struct {
	tx      *redis.Tx
	key     string
	payload []byte
	dirty   bool
}

func (s *redisTxStore) GetMembers(ctx context.Context) (club.Members, error) {
	if s.dirty {
		var ids []string
		if err := json.Unmarshal(s.payload, &ids); err != nil {
			return nil, fmt.Errorf("unable to decode members: %v", err)
		}
		return club.MembersFromStrings(ids), nil
	}
	return readMembers(ctx, s.tx, s.key)
}

func (s *redisTxStore) PutMembers(_ context.Context, members club.Members) error {
	if payload, err := encodeMembers(members); err != nil {
		return err
	} else {
		s.payload = payload
		s.dirty = true
		return nil
	}
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readMembers(ctx context.Context, c stringGetter, key string) (club.Members, error) {
	res, err := c.Get(ctx, key).Result()
	if err == redis.Nil {
		return club.Members{}, nil
	} else if err != nil {
		return nil, err
	}

	var ids []string
	if decodeErr := json.Unmarshal([]byte(res), &ids); decodeErr != nil {
		return nil, fmt.Errorf("unable to decode members: %v", decodeErr)
	}
	return club.MembersFromStrings(ids), nil
}

func encodeMembers(members club.Members) ([]byte, error) {
	if payload, err := json.Marshal(members.Strings()); err != nil {
		return nil, fmt.Errorf("unable to encode members: %v", err)
	} else {
		return payload, nil
	}
}
