// Package config reads settings from environment variables grouped under key prefixes
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"aarcnorm/internal/platform/logger"
)

// Conf is a view over the environment; Prefix narrows it, e.g. to "SERVICE_PGSQL_"
type Conf struct{ prefix string }

// New returns the unprefixed view
func New() Conf { return Conf{} }

// Prefix returns a view whose keys all start with p
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// get returns the full key and its trimmed value
func (c Conf) get(key string) (string, string) {
	k := c.prefix + key
	return k, strings.TrimSpace(os.Getenv(k))
}

// MustString panics when key is unset or blank
func (c Conf) MustString(key string) string {
	k, v := c.get(key)
	if v == "" {
		logger.Get().Panic().Str("key", k).Msg("missing required env")
	}
	return v
}

// MayString returns def when key is unset or blank
func (c Conf) MayString(key, def string) string {
	if _, v := c.get(key); v != "" {
		return v
	}
	return def
}

// MayInt returns def when key is unset or not an integer
func (c Conf) MayInt(key string, def int) int { return parsed(c, key, def, strconv.Atoi) }

// MayBool accepts strconv.ParseBool spellings
func (c Conf) MayBool(key string, def bool) bool { return parsed(c, key, def, strconv.ParseBool) }

// MayDuration accepts time.ParseDuration strings such as 250ms or 2m
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return parsed(c, key, def, time.ParseDuration)
}

// MayCSV splits a comma separated list, dropping blank entries; def when nothing is left
func (c Conf) MayCSV(key string, def []string) []string {
	_, v := c.get(key)
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// parsed falls back to def and warns when the value does not parse
func parsed[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	k, v := c.get(key)
	if v == "" {
		return def
	}
	out, err := parse(v)
	if err != nil {
		logger.Get().Warn().Str("key", k).Str("value", v).Interface("default", def).Msg("unparsable env, using default")
		return def
	}
	return out
}
