package translate

import "errors"

var (
	// ErrNoProviders means zero providers had a credential at construction.
	ErrNoProviders = errors.New("no translation providers available")
	// ErrAllProvidersFailed means every available provider, including the
	// fallback, failed for one text.
	ErrAllProvidersFailed = errors.New("all translation providers failed")
	// ErrStoreUnavailable means the persistence layer is not configured.
	ErrStoreUnavailable = errors.New("translation store unavailable")
)
