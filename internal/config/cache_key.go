package config

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuestionFeedChannel returns the Redis PubSub channel carrying question events
func (r *CacheKeyStruct) QuestionFeedChannel() string {
	return "questions:feed"
}

var CacheKey = NewCacheKeyStruct()
