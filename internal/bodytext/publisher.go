package bodytext

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var displayRenames = map[string]string{
	"Marketwatch": "Market Watch",
	"Wsj":         "WSJ",
	"Nytimes":     "NYT",
	"Bitcoin":     "Bitcoin.com",
}

// DomainKey reduces a host like "www.finance.yahoo.com" to its registrable
// label, "yahoo". IP addresses and bare hosts are returned lower-cased.
func DomainKey(host string) string {
	host = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(host, ".")))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" || net.ParseIP(host) != nil {
		return host
	}
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	label, _, _ := strings.Cut(registrable, ".")
	return label
}

// HostOf returns the host of a URL, or "" if it does not parse.
func HostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// DisplayName turns a domain key into a publisher name for reports.
func DisplayName(key string) string {
	if key == "" {
		return ""
	}
	name := cases.Title(language.English).String(key)
	if renamed, ok := displayRenames[name]; ok {
		return renamed
	}
	return name
}
