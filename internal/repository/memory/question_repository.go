package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const questionCacheKey = "suggested_questions"

// QuestionRepository caches the generated example questions so the welcome
// screen does not trigger a model call on every visit. Entries are refreshed
// by the knowledgebase-changed consumer.
type QuestionRepository struct {
	cache *cache.Cache
}

func NewQuestionRepository() *QuestionRepository {
	return &QuestionRepository{
		cache: cache.New(12*time.Hour, 30*time.Minute),
	}
}

func (r *QuestionRepository) Save(questions []string) {
	r.cache.Set(questionCacheKey, questions, cache.DefaultExpiration)
}

func (r *QuestionRepository) Get() ([]string, bool) {
	if x, found := r.cache.Get(questionCacheKey); found {
		return x.([]string), true
	}
	return nil, false
}

func (r *QuestionRepository) Clear() {
	r.cache.Delete(questionCacheKey)
}
