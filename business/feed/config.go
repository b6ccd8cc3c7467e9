package feed

import "time"

type Config struct {
	// max rows pulled from the store for one primary build
	CandidateLimit int
	// hard cap on the alternative feed
	FallbackLimit int
	// max price bound the UI offers; treated as "unset"
	PriceCeiling float64

	ContextTTL        time.Duration
	BoostFetchTimeout time.Duration

	FetchRetries         int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration

	SessionIdleTTL        time.Duration
	MaxInstancesPerViewer int
}

const (
	defaultCandidateLimit        = 200
	defaultFallbackLimit         = 20
	defaultPriceCeiling          = 1000000
	defaultContextTTL            = 30 * time.Second
	defaultBoostFetchTimeout     = 300 * time.Millisecond
	defaultFetchRetries          = 3
	defaultRetryInitialInterval  = 100 * time.Millisecond
	defaultRetryMaxInterval      = time.Second
	defaultSessionIdleTTL        = 30 * time.Minute
	defaultMaxInstancesPerViewer = 8
)

func DefaultConfig() Config {
	return Config{
		CandidateLimit:        defaultCandidateLimit,
		FallbackLimit:         defaultFallbackLimit,
		PriceCeiling:          defaultPriceCeiling,
		ContextTTL:            defaultContextTTL,
		BoostFetchTimeout:     defaultBoostFetchTimeout,
		FetchRetries:          defaultFetchRetries,
		RetryInitialInterval:  defaultRetryInitialInterval,
		RetryMaxInterval:      defaultRetryMaxInterval,
		SessionIdleTTL:        defaultSessionIdleTTL,
		MaxInstancesPerViewer: defaultMaxInstancesPerViewer,
	}
}

// withDefaults fills zero values so a partially built Config stays usable.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.CandidateLimit <= 0 {
		c.CandidateLimit = d.CandidateLimit
	}
	if c.FallbackLimit <= 0 {
		c.FallbackLimit = d.FallbackLimit
	}
	if c.PriceCeiling <= 0 {
		c.PriceCeiling = d.PriceCeiling
	}
	if c.ContextTTL <= 0 {
		c.ContextTTL = d.ContextTTL
	}
	if c.BoostFetchTimeout <= 0 {
		c.BoostFetchTimeout = d.BoostFetchTimeout
	}
	if c.FetchRetries < 0 {
		c.FetchRetries = 0
	}
	if c.RetryInitialInterval <= 0 {
		c.RetryInitialInterval = d.RetryInitialInterval
	}
	if c.RetryMaxInterval <= 0 {
		c.RetryMaxInterval = d.RetryMaxInterval
	}
	if c.SessionIdleTTL <= 0 {
		c.SessionIdleTTL = d.SessionIdleTTL
	}
	if c.MaxInstancesPerViewer <= 0 {
		c.MaxInstancesPerViewer = d.MaxInstancesPerViewer
	}
	return c
}
