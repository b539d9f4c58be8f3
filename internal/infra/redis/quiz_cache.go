package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quiz-retake-service/internal/app"
	"quiz-retake-service/internal/domain"
)

// QuizCache keeps JSON snapshots of quizzes in Redis in front of another
// QuizStore. Quizzes are stored as: SET quiz:{quizID} {json} EX ttl
// Every write bumps quiz:{quizID}:ver; a fill only lands if the version it
// saw before reading the store is still current.
// Redis failures are logged and the backing store is used instead.
type QuizCache struct {
	app.QuizStore

	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewQuizCache(client *redis.Client, next app.QuizStore, ttl time.Duration) *QuizCache {
	return &QuizCache{
		QuizStore: next,
		client:    client,
		ttl:       ttl,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuizCache) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := c.cached(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := c.cached(ctx, quizID); ok {
			return quiz, nil
		}

		ver, verOK := c.version(ctx, quizID)

		quiz, err := c.QuizStore.GetQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		if verOK {
			c.fill(ctx, quizID, ver, quiz)
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz).Clone(), nil
}

func (c *QuizCache) ReplaceQuiz(ctx context.Context, quiz domain.Quiz) error {
	c.invalidate(ctx, quiz.ID)
	err := c.QuizStore.ReplaceQuiz(ctx, quiz)
	c.invalidate(ctx, quiz.ID)
	return err
}

func (c *QuizCache) DeleteQuiz(ctx context.Context, quizID string) error {
	c.invalidate(ctx, quizID)
	err := c.QuizStore.DeleteQuiz(ctx, quizID)
	c.invalidate(ctx, quizID)
	return err
}

func (c *QuizCache) cached(ctx context.Context, quizID string) (domain.Quiz, bool) {
	raw, err := c.client.Get(ctx, c.key(quizID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			glog.Warningf("quiz cache read %s: %v", quizID, err)
		}
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		glog.Warningf("quiz cache decode %s: %v", quizID, err)
		return domain.Quiz{}, false
	}
	glog.V(2).Infof("quiz cache hit %s", quizID)
	return quiz, true
}

var errStaleFill = errors.New("quiz changed during cache fill")

// version returns the current write version of a quiz, "" if it was never
// written. ok is false when Redis could not be read.
func (c *QuizCache) version(ctx context.Context, quizID string) (string, bool) {
	ver, err := c.client.Get(ctx, c.versionKey(quizID)).Result()
	if err == redis.Nil {
		return "", true
	}
	if err != nil {
		glog.Warningf("quiz cache version %s: %v", quizID, err)
		return "", false
	}
	return ver, true
}

func (c *QuizCache) fill(ctx context.Context, quizID, ver string, quiz domain.Quiz) {
	raw, err := json.Marshal(quiz)
	if err != nil {
		return
	}
	verKey := c.versionKey(quizID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, verKey).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		if current != ver {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(quizID), raw, c.ttlWithJitter())
			return nil
		})
		return err
	}, verKey)
	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		glog.V(2).Infof("quiz cache fill %s skipped: written concurrently", quizID)
	default:
		glog.Warningf("quiz cache fill %s: %v", quizID, err)
	}
}

func (c *QuizCache) invalidate(ctx context.Context, quizID string) {
	verKey := c.versionKey(quizID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.key(quizID))
		pipe.Incr(ctx, verKey)
		pipe.Expire(ctx, verKey, c.ttl+time.Hour)
		return nil
	})
	if err != nil {
		glog.Warningf("quiz cache invalidate %s: %v", quizID, err)
	}
	c.sf.Forget(quizID)
}

func (c *QuizCache) key(quizID string) string {
	return "quiz:" + quizID
}

func (c *QuizCache) versionKey(quizID string) string {
	return "quiz:" + quizID + ":ver"
}

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
