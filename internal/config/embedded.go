package config

// EmbeddedTMDBKey is injected at build time via ldflags and serves as the
// default TMDB key. Environment variables or the config file override it.
//
// Build with:
//
//	go build -ldflags "-X 'github.com/cinefinder/cinefinder/internal/config.EmbeddedTMDBKey=xxx'"
var EmbeddedTMDBKey string
