package config

import (
	"net/url"
	"strings"
)

const preparedBinaryParam = "disable_prepared_binary_result"

// DatabaseURL returns DBURL with disable_prepared_binary_result=yes added
// when DBDisablePreparedBinary is set. An explicit value in the URL wins.
func (c Config) DatabaseURL() string {
	return NormalizeDBURL(c.DBURL, c.DBDisablePreparedBinary)
}

func NormalizeDBURL(raw string, disablePreparedBinary bool) string {
	raw = strings.TrimSpace(raw)
	if !disablePreparedBinary || raw == "" {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Get(preparedBinaryParam) != "" {
		return raw
	}
	query.Set(preparedBinaryParam, "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
