package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-redis/redis/v8"
	"github.com/kelseyhightower/envconfig"
)

type DB int
type ReleaseLock func() error

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("redis key not found")

type Client struct {
	client         redis.UniversalClient
	lockExpiration time.Duration
}

var ctx = context.Background()

type Config struct {
	LockExpirationSeconds   int     `envconfig:"POSTAG_REDIS_LOCK_EXPIRATION" default:"3"`
	Host                    string  `envconfig:"POSTAG_REDIS_HOST" required:"true"`
	Port                    string  `envconfig:"POSTAG_REDIS_PORT" required:"true"`
	HASentinelPort          string  `envconfig:"POSTAG_REDIS_HA_SENTINEL_PORT" default:"26379"`
	HASentinelMasterName    string  `envconfig:"POSTAG_REDIS_HA_MASTER_NAME" default:"mymaster"`
	Password                string  `envconfig:"POSTAG_REDIS_AUTH_PASSWORD" default:""`
	AuthRequired            bool    `envconfig:"POSTAG_REDIS_AUTH_REQUIRED" default:"false"`
	HAMode                  bool    `envconfig:"POSTAG_REDIS_HA_MODE" default:"false"`
	HASentinelSocketTimeout float32 `envconfig:"POSTAG_REDIS_SOCKET_TIMEOUT" default:"0.5"`
}

func NewClient(db DB) (Client, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Client{}, err
	}
	var client redis.UniversalClient
	if cfg.HAMode {
		client = CreateFailoverClient(&cfg, db)
	} else {
		client = CreateClient(&cfg, db)
	}
	return NewFromUniversal(client, time.Duration(cfg.LockExpirationSeconds)*time.Second), nil
}

// NewFromUniversal wraps an existing go-redis client.
func NewFromUniversal(client redis.UniversalClient, lockExpiration time.Duration) Client {
	return Client{
		client:         client,
		lockExpiration: lockExpiration,
	}
}

func CreateFailoverClient(cfg *Config, db DB) *redis.ClusterClient {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.HASentinelPort)
	timeout := time.Duration(float64(cfg.HASentinelSocketTimeout) * float64(time.Second))
	options := redis.FailoverOptions{
		SentinelAddrs: []string{addr},
		ReadTimeout:   timeout,
		WriteTimeout:  timeout,
		MaxRetries:    6,
		DB:            int(db),
		MasterName:    cfg.HASentinelMasterName,
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewFailoverClusterClient(&options)
}

func CreateClient(cfg *Config, db DB) *redis.Client {
	options := redis.Options{
		Addr:       fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		MaxRetries: 6,
		DB:         int(db),
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewClient(&options)
}

// Get decodes the JSON value stored at redisKey into doc.
func (client *Client) Get(redisKey string, doc interface{}) error {
	b, err := client.client.Get(ctx, redisKey).Bytes()
	if err == redis.Nil {
		return fmt.Errorf("%w: %s", ErrNotFound, redisKey)
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(b, doc)
}

// Update reads doc under a lock on redisKey, applies updateFunc and saves it
// back.
func (client *Client) Update(redisKey string, doc interface{}, updateFunc func()) (err error) {
	releaseLock, err := client.Lock(redisKey)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := releaseLock(); err == nil {
			err = releaseErr
		}
	}()
	if err = client.Get(redisKey, doc); err != nil {
		return err
	}
	updateFunc()
	return client.Save(redisKey, doc)
}

func (client *Client) Lock(redisKey string) (ReleaseLock, error) {
	lockCl := redislock.New(client.client)
	str := redislock.LimitRetry(redislock.LinearBackoff(time.Second), 20)
	lockKey := fmt.Sprintf("lock:%s", redisKey)
	lock, err := lockCl.Obtain(ctx, lockKey, client.lockExpiration, &redislock.Options{RetryStrategy: str})
	if err != nil {
		return nil, err
	}
	return func() error {
		return lock.Release(ctx)
	}, nil
}

func (client *Client) Save(redisKey string, doc interface{}) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return client.client.Set(ctx, redisKey, b, 0).Err()
}

func (client *Client) Close() error {
	return client.client.Close()
}
