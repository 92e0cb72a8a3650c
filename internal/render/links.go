package render

import (
	"net/url"
	"strings"

	"cv-site/internal/model"

	"golang.org/x/net/publicsuffix"
)

type URLKind string

const (
	URLLinkedIn URLKind = "linkedin"
	URLGitHub   URLKind = "github"
	URLWebsite  URLKind = "website"
)

func KindOfURL(raw string) URLKind {
	switch {
	case strings.Contains(raw, "linkedin.com"):
		return URLLinkedIn
	case strings.Contains(raw, "github.com"):
		return URLGitHub
	}
	return URLWebsite
}

// URLLabel is the link text for a profile or project URL. Websites show
// their registrable domain when one can be derived.
func URLLabel(raw string) string {
	switch KindOfURL(raw) {
	case URLLinkedIn:
		return "LinkedIn Profile"
	case URLGitHub:
		return "GitHub Profile"
	}
	if d := domainLabel(raw); d != "" {
		return d
	}
	return "Website"
}

func domainLabel(raw string) string {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return ""
	}
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if host == "" {
		return ""
	}
	etld, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(etld, "www.")
}

// Href builds the anchor target for contact-style fields.
func Href(f FieldConfig, value string) string {
	switch f.Type {
	case FieldEmail:
		return "mailto:" + value
	case FieldPhone:
		return "tel:" + value
	}
	return value
}

// SkillLevelClass is the CSS class used to colour a skill badge.
func SkillLevelClass(s model.Skill) string {
	if s.Level == "" {
		return "skill-level-intermediate"
	}
	return "skill-level-" + strings.ToLower(string(s.Level))
}
