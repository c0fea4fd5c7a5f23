package config

import "fmt"

// Options tune how labels are rendered and joined into workspace names.
type Options struct {
	Delimiter          string
	MaxTitleLength     int
	Uniq               bool
	IgnoreUnknown      bool
	NoMatchNotShowName bool
}

// DefaultOptions mirrors the command line defaults.
func DefaultOptions() Options {
	return Options{
		Delimiter:      "|",
		MaxTitleLength: 12,
	}
}

// Validate performs basic sanity checks.
func (o Options) Validate() error {
	if o.MaxTitleLength < 0 {
		return fmt.Errorf("max title length cannot be negative, got %d", o.MaxTitleLength)
	}
	return nil
}
