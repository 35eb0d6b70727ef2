package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

func (kb *KeyBuilder) KeyElectionResult(electionID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyElectionResult, electionID))
}

// KeyInflight builds the lock key for one user-triggered action on one subject,
// e.g. KeyInflight("ballot", "v1:e9").
func (kb *KeyBuilder) KeyInflight(action, subject string) string {
	return kb.BuildKey(fmt.Sprintf(KeyInflight, action, subject))
}
