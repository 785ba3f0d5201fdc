package usecases

import (
	"net/url"
	"strings"
)

const pluginSettingsPath = "/wp-admin/admin.php?page=ns-ai-search-messenger"

// DefaultRedirectURI is the plugin's Messenger settings page on domain.
func DefaultRedirectURI(domain string) string {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return ""
	}
	return "https://" + domain + pluginSettingsPath
}

// FirstRedirect returns the first candidate that is an absolute http(s)
// URL, or "".
func FirstRedirect(candidates ...string) string {
	for _, c := range candidates {
		if isRedirectable(c) {
			return c
		}
	}
	return ""
}

func isRedirectable(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}

// AppendQuery sets params on target, keeping its existing query.
func AppendQuery(target string, params url.Values) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	for k, vs := range params {
		q.Del(k)
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
