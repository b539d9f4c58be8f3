package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quiz-retake-service/internal/app"
	"quiz-retake-service/internal/domain"
)

// QuizCache caches GetQuiz with a TTL in front of another QuizStore.
// Writes go straight to the backing store and drop the cached entry.
// Each write bumps a per-quiz generation; a read that started before the
// bump does not fill the cache.
type QuizCache struct {
	app.QuizStore

	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand
	rndMu sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedQuiz
	gen   map[string]uint64
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewQuizCache(next app.QuizStore, ttl time.Duration) *QuizCache {
	return &QuizCache{
		QuizStore: next,
		ttl:       ttl,
		clock:     time.Now,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:     make(map[string]cachedQuiz),
		gen:       make(map[string]uint64),
	}
}

func (c *QuizCache) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := c.lookup(quizID); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do(quizID, func() (interface{}, error) {
		if quiz, ok := c.lookup(quizID); ok {
			return quiz, nil
		}

		c.mu.RLock()
		gen := c.gen[quizID]
		c.mu.RUnlock()

		quiz, err := c.QuizStore.GetQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		c.mu.Lock()
		if c.gen[quizID] == gen {
			c.cache[quizID] = cachedQuiz{
				quiz:      quiz.Clone(),
				expiresAt: c.clock().Add(c.ttlWithJitter()),
			}
		}
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz).Clone(), nil
}

func (c *QuizCache) ReplaceQuiz(ctx context.Context, quiz domain.Quiz) error {
	err := c.QuizStore.ReplaceQuiz(ctx, quiz)
	c.invalidate(quiz.ID)
	return err
}

func (c *QuizCache) DeleteQuiz(ctx context.Context, quizID string) error {
	err := c.QuizStore.DeleteQuiz(ctx, quizID)
	c.invalidate(quizID)
	return err
}

func (c *QuizCache) lookup(quizID string) (domain.Quiz, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[quizID]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return domain.Quiz{}, false
	}
	return entry.quiz.Clone(), true
}

func (c *QuizCache) invalidate(quizID string) {
	c.mu.Lock()
	delete(c.cache, quizID)
	c.gen[quizID]++
	c.mu.Unlock()
	// Later readers must not join a load that may predate the write.
	c.sf.Forget(quizID)
}

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
