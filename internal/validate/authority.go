package validate

import (
	"net/url"
	"strings"

	"github.com/ppiankov/ethnia/internal/model"
)

// Tier is the authority class of a cited source
type Tier string

const (
	TierPrimary   Tier = "primary"   // Scholarly archives, DOIs, institutional sites
	TierSecondary Tier = "secondary" // Encyclopedias, language catalogues
	TierTertiary  Tier = "tertiary"  // Any other web page
	TierPrint     Tier = "print"     // Bibliographic reference without a link
)

// AuthorityClassifier classifies cited URLs into authority tiers
type AuthorityClassifier struct {
	domainMap    map[string]Tier
	primaryMap   map[string]bool
	secondaryMap map[string]bool
}

// NewAuthorityClassifier creates a new authority classifier
func NewAuthorityClassifier(config *model.SourcesConfig) *AuthorityClassifier {
	if config == nil {
		config = &model.DefaultConfig().Sources
	}

	classifier := &AuthorityClassifier{
		domainMap:    make(map[string]Tier),
		primaryMap:   make(map[string]bool),
		secondaryMap: make(map[string]bool),
	}

	for host, tier := range config.DomainMap {
		classifier.domainMap[strings.ToLower(host)] = parseTier(tier)
	}
	for _, domain := range config.PrimaryDomains {
		classifier.primaryMap[strings.ToLower(domain)] = true
	}
	for _, domain := range config.SecondaryDomains {
		classifier.secondaryMap[strings.ToLower(domain)] = true
	}

	return classifier
}

// Classify classifies a URL into an authority tier
func (a *AuthorityClassifier) Classify(rawURL string) Tier {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return TierTertiary
	}
	host := strings.ToLower(parsed.Hostname())

	if tier, ok := a.domainMap[host]; ok {
		return tier
	}
	if matchesDomain(host, a.primaryMap) {
		return TierPrimary
	}
	if matchesDomain(host, a.secondaryMap) {
		return TierSecondary
	}

	// Academic and governmental hosts
	for _, suffix := range []string{".edu", ".gov", ".gouv.fr", ".ac.uk", ".ac.za", ".univ.fr"} {
		if strings.HasSuffix(host, suffix) {
			return TierPrimary
		}
	}
	if strings.HasPrefix(host, "univ-") || strings.Contains(host, ".univ-") {
		return TierPrimary
	}

	return TierTertiary
}

// matchesDomain reports whether host is one of domains or a subdomain of one
func matchesDomain(host string, domains map[string]bool) bool {
	if domains[host] {
		return true
	}
	for domain := range domains {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func parseTier(tier string) Tier {
	switch strings.ToLower(tier) {
	case "primary", "1":
		return TierPrimary
	case "secondary", "2":
		return TierSecondary
	default:
		return TierTertiary
	}
}
