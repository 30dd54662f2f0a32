package redis

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/heyvito/go-leader/leader"
	"github.com/heyvito/redlock-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/skillforge/depot/gate"
)

const (
	tokenKeyPrefix            = "skillforge:depot:token:"
	rateLimitKeyPrefix        = "skillforge:depot:ratelimit:"
	bundleLockKey             = "skillforge:depot:bundle_lock"
	housekeepingTasksListName = "skillforge:depot:housekeeping_tasks"
)

// Per-address rate limit window. The catalog issues one short code per
// download, and a single clone needs only a handful of requests.
const (
	rateLimitWindow   = time.Minute
	rateLimitRequests = 60
)

type Client interface {
	gate.Gate

	Locking(id string, timeout time.Duration, fn func() error) error
	MakeLeader(opts leader.Opts) (lead leader.Leader, onPromote <-chan time.Time, onDemote <-chan time.Time, onError <-chan error)
	NextHousekeepingTask() (string, error)
	RequeueHousekeepingTask(task string) error
}

func New(url string) (Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	i := &impl{
		r:   redis.NewClient(opts),
		log: zap.L().With(zap.String("component", "redis")),
	}
	if err = i.r.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	i.l = redlock.New(i.r)
	return i, nil
}

type impl struct {
	r   *redis.Client
	l   redlock.Redlock
	log *zap.Logger
}

// consumeScript spends one token use if and only if the token exists, has
// not expired, and has uses left. Running the checks as a single script is
// what keeps concurrent redemptions of the same code race-free.
var consumeScript = redis.NewScript(`
local expires = redis.call('HGET', KEYS[1], 'expires_at')
if not expires then return -1 end
if tonumber(expires) <= tonumber(ARGV[1]) then return -2 end
local max = tonumber(redis.call('HGET', KEYS[1], 'max_uses'))
local used = tonumber(redis.call('HGET', KEYS[1], 'use_count'))
if used >= max then return -3 end
return redis.call('HINCRBY', KEYS[1], 'use_count', 1)
`)

func tokenFromHash(code string, fields map[string]string) *gate.DownloadToken {
	skillID, _ := strconv.ParseInt(fields["skill_id"], 10, 64)
	maxUses, _ := strconv.ParseInt(fields["max_uses"], 10, 64)
	useCount, _ := strconv.ParseInt(fields["use_count"], 10, 64)
	expiresAt, _ := strconv.ParseInt(fields["expires_at"], 10, 64)

	return &gate.DownloadToken{
		ShortCode: code,
		TokenHash: fields["token_hash"],
		SkillID:   skillID,
		Purpose:   gate.Purpose(fields["purpose"]),
		MaxUses:   maxUses,
		UseCount:  useCount,
		ExpiresAt: time.Unix(expiresAt, 0).UTC(),
	}
}

func (i impl) tokenByCode(code string) (*gate.DownloadToken, error) {
	fields, err := i.r.HGetAll(context.Background(), tokenKeyPrefix+code).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, gate.ErrTokenNotFound{Code: code}
	}

	return tokenFromHash(code, fields), nil
}

func (i impl) VerifyToken(code string) (*gate.DownloadToken, error) {
	if !gate.ValidShortCode(code) {
		return nil, gate.ErrInvalidShortCode{Code: code}
	}

	tok, err := i.tokenByCode(code)
	if err != nil {
		return nil, err
	}

	if !time.Now().Before(tok.ExpiresAt) {
		return nil, gate.ErrTokenExpired{Code: code}
	}
	if tok.UseCount >= tok.MaxUses {
		return nil, gate.ErrTokenExhausted{Code: code}
	}

	return tok, nil
}

func (i impl) ConsumeToken(code string) (*gate.DownloadToken, error) {
	if !gate.ValidShortCode(code) {
		return nil, gate.ErrInvalidShortCode{Code: code}
	}

	res, err := consumeScript.Run(context.Background(), i.r,
		[]string{tokenKeyPrefix + code},
		time.Now().Unix()).Int64()
	if err != nil {
		return nil, err
	}

	switch res {
	case -1:
		return nil, gate.ErrTokenNotFound{Code: code}
	case -2:
		return nil, gate.ErrTokenExpired{Code: code}
	case -3:
		return nil, gate.ErrTokenExhausted{Code: code}
	}

	tok, err := i.tokenByCode(code)
	if err != nil {
		return nil, err
	}
	tok.UseCount = res
	return tok, nil
}

func (i impl) AllowIP(addr string) error {
	ctx := context.Background()
	key := rateLimitKeyPrefix + addr

	count, err := i.r.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		if err = i.r.Expire(ctx, key, rateLimitWindow).Err(); err != nil {
			return err
		}
	}

	if count > rateLimitRequests {
		retry, err := i.r.TTL(ctx, key).Result()
		if err != nil || retry < 0 {
			retry = rateLimitWindow
		}
		return gate.ErrRateLimited{RetryAfter: retry}
	}

	return nil
}

func (i impl) Locking(id string, ttl time.Duration, fn func() error) error {
	key := strings.Join([]string{bundleLockKey, id}, ":")
	return i.l.Locking(key, int(ttl.Milliseconds()), fn)
}

func (i impl) MakeLeader(opts leader.Opts) (lead leader.Leader, onPromote <-chan time.Time, onDemote <-chan time.Time, onError <-chan error) {
	opts.Redis = i.r
	return leader.NewLeader(opts)
}

func (i impl) NextHousekeepingTask() (string, error) {
	v, err := i.r.BLPop(context.Background(), 2*time.Second, housekeepingTasksListName).Result()
	if err == redis.Nil {
		return "", nil
	} else if err != nil {
		return "", err
	}

	return v[1], nil
}

func (i impl) RequeueHousekeepingTask(task string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()
	timeout := 500 * time.Millisecond
	for {
		err := i.r.LPush(context.Background(), housekeepingTasksListName, task).Err()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				i.log.Error("Failed requeueing task. Will not retry.",
					zap.NamedError("context_error", ctx.Err()),
					zap.NamedError("requeue_error", err))
				return err
			}

			i.log.Warn("Failed requeueing task. Will retry.",
				zap.Duration("waiting", timeout),
				zap.Error(err))
			time.Sleep(timeout)
			timeout *= 2
			continue
		}
		break
	}
	return nil
}
