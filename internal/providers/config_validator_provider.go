package providers

import (
	"errors"
	"plantao/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return v.Errors
	}

	if c.conf.RateLimit.Enabled && (c.conf.RateLimit.Requests <= 0 || c.conf.RateLimit.Window <= 0) {
		return errors.New("rateLimit: requests and window must be positive when enabled")
	}
	if c.conf.Snapshot.Enabled {
		if c.conf.Snapshot.Interval <= 0 {
			return errors.New("snapshot: interval must be positive when enabled")
		}
		if c.conf.Snapshot.Dir == "" {
			return errors.New("snapshot: dir is required when enabled")
		}
	}
	if c.conf.Cache.Enabled && c.conf.Cache.TTL < 0 {
		return errors.New("cache: ttl must not be negative")
	}
	return nil
}
