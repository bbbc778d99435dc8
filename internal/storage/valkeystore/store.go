// Package valkeystore implements a small JSON object store on top of a
// ValKey client. Objects live under keys of the form prefix:type:id.
package valkeystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/shopfront/storefront-manager/internal/serviceerr"
)

type Store struct {
	valkey valkey.Client
	prefix string
}

func New(valkeyClient valkey.Client, prefix string) *Store {
	prefix = strings.TrimSuffix(prefix, ":")
	return &Store{
		valkey: valkeyClient,
		prefix: prefix,
	}
}

// Get decodes the object stored under the given type and id.
// Returns serviceerr.ErrNotFound when the key does not exist.
func (s *Store) Get(ctx context.Context, objectType, objectID string, decodeInto any) error {
	key := s.key(objectType, objectID)

	bytes, err := s.valkey.Do(ctx, s.valkey.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		valkeyErr, ok := valkey.IsValkeyErr(err)
		if ok && valkeyErr.IsNil() {
			return errors.Join(valkeyErr, serviceerr.ErrNotFound)
		}

		return fmt.Errorf("executing get command: %w", err)
	}

	if err := json.Unmarshal(bytes, decodeInto); err != nil {
		return fmt.Errorf("decoding object: %w", err)
	}

	return nil
}

// Set stores the object under the given type and id. A positive ttl expires
// the key; a zero or negative ttl stores it without expiry.
func (s *Store) Set(ctx context.Context, objectType, objectID string, val any, ttl time.Duration) error {
	key := s.key(objectType, objectID)
	bytes, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("encoding object: %w", err)
	}

	builder := s.valkey.B().Set().Key(key).Value(valkey.BinaryString(bytes))

	var cmd valkey.Completed
	if ttl > 0 {
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}

	if err := s.valkey.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("executing set command: %w", err)
	}

	return nil
}

// Destroy deletes the key for the given type and id. Deleting an absent key
// is not an error.
func (s *Store) Destroy(ctx context.Context, objectType, objectID string) error {
	key := s.key(objectType, objectID)
	if err := s.valkey.Do(ctx, s.valkey.B().Del().Key(key).Build()).Error(); err != nil {
		return fmt.Errorf("executing del command: %w", err)
	}

	return nil
}

// ListIDs enumerates the object ids stored under the given type.
func (s *Store) ListIDs(ctx context.Context, objectType string) ([]string, error) {
	pattern := s.key(objectType, "*")
	keyPrefix := s.key(objectType, "")

	var ids []string
	var cursor uint64
	for {
		scan, err := s.valkey.Do(ctx, s.valkey.B().Scan().Cursor(cursor).Match(pattern).Count(100).Build()).AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("executing scan command: %w", err)
		}

		cursor = scan.Cursor
		for _, key := range scan.Elements {
			ids = append(ids, strings.TrimPrefix(key, keyPrefix))
		}

		if cursor == 0 {
			return ids, nil
		}
	}
}

func (s *Store) key(objectType, objectID string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, objectType, objectID)
}
