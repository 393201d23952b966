package middleware

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeKey struct{}

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// SupportedLocales lists the locales responses are available in. The first
// entry is the fallback.
var SupportedLocales = []language.Tag{language.English, language.Indonesian}

var localeMatcher = language.NewMatcher(SupportedLocales)

// Headers set by CDNs and proxies, in order of trust.
var countryHeaders = []string{"X-Country-Code", "CF-IPCountry", "X-IP-Country", "X-Appengine-Country"}

// I18N negotiates the response locale and stores it on the request context.
// The resolved country is reported to the request logger.
func I18N(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	fallback := normalizeLocale(defaultLocale)
	if fallback == "" {
		fallback = tagBase(SupportedLocales[0])
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := ResolveCountry(r, lookup)
			locale := negotiateLocale(r, country, fallback)
			annotate(r.Context(), locale, country)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), localeKey{}, locale)))
		})
	}
}

// negotiateLocale prefers an explicit X-Locale, then Accept-Language, then
// the country. Malformed headers are ignored.
func negotiateLocale(r *http.Request, country, fallback string) string {
	if v := normalizeLocale(r.Header.Get("X-Locale")); v != "" {
		return v
	}
	if v := parseAcceptLanguage(r.Header.Get("Accept-Language")); v != "" {
		return v
	}
	switch {
	case strings.EqualFold(country, "ID"):
		return "id"
	case country != "":
		return "en"
	}
	return fallback
}

func parseAcceptLanguage(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return matchLocale(tags...)
}

func normalizeLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return ""
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return ""
	}
	return matchLocale(tag)
}

// matchLocale maps tags onto SupportedLocales; unmatched input yields the
// first supported locale.
func matchLocale(tags ...language.Tag) string {
	_, idx, _ := localeMatcher.Match(tags...)
	return tagBase(SupportedLocales[idx])
}

func tagBase(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

// LocaleFromContext returns the negotiated locale, "en" when none was set.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(localeKey{}).(string); ok && v != "" {
		return v
	}
	return "en"
}

// ResolveCountry returns an upper-case ISO country code from proxy headers,
// an explicit locale region or the IP lookup, in that order. It returns ""
// when nothing is known.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	for _, h := range countryHeaders {
		if v := strings.TrimSpace(r.Header.Get(h)); v != "" {
			return strings.ToUpper(v)
		}
	}
	for _, h := range []string{"X-Locale", "Accept-Language"} {
		if region := localeRegion(r.Header.Get(h)); region != "" {
			return region
		}
	}
	if lookup == nil {
		return ""
	}
	ip := clientIP(r)
	if ip == "" {
		return ""
	}
	country, err := lookup(ip)
	if err != nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(country))
}

// localeRegion returns the first region stated explicitly in a language
// header. Inferred regions are skipped.
func localeRegion(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return ""
	}
	for _, tag := range tags {
		if region, conf := tag.Region(); conf == language.Exact {
			return region.String()
		}
	}
	return ""
}
