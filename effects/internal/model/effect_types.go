package effectmodel

import "errors"

type EffectEnum string

const (
	EffectLog         EffectEnum = "effect_ive_store_effect_enum_log"
	EffectConcurrency EffectEnum = "effect_ive_store_effect_enum_concurrency"
	EffectBinding     EffectEnum = "effect_ive_store_effect_enum_binding"
)

// ErrNoEffectHandler is raised when an effect is performed without a handler in scope.
var ErrNoEffectHandler = errors.New("no effect handler registered for this effect")

type EffectScopeConfig struct {
	BufferSize int // default: 1
}

func NewEffectScopeConfig(bufferSize int) EffectScopeConfig {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return EffectScopeConfig{
		BufferSize: bufferSize,
	}
}
