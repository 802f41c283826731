package parsers

import (
	"bytes"
	"regexp"
	"strings"

	"dns-analytics/internal/models"

	"golang.org/x/net/publicsuffix"
)

const (
	minQueryLen = 5
	maxQueryLen = 255
	maxLabelLen = 63

	labelSep = '.'

	// collectionDomain is the internal domain used for data-collection
	// traffic. It is allow-listed through the suffix filters even though
	// its TLD is neither public nor permitted.
	collectionDomain = "tun.lan"
)

var wwwLabel = []byte("www")

// reservedSuffixes lists special-use and internal TLDs whose traffic is
// filtered out. Matched as a byte suffix against the resolved public
// suffix, not label-aligned.
var reservedSuffixes = []string{
	"arpa",
	"local",
	"intranet",
	"lan",
	"localhost",
	"example.com",
	"example.net",
	"example.org",
	"internal",
	"private",
	"corp",
	"home",
	"invalid",
	"test",
	"example",
}

// validPrimaryRe restricts primary domains to alphanumerics, dot and
// hyphen with an optional leading underscore and no leading or trailing
// hyphen.
var validPrimaryRe = regexp.MustCompile(`^(_?[a-zA-Z0-9]+[a-zA-Z0-9.-]*[a-zA-Z0-9]?)$`)

// ParseQuery validates a raw, escape-decoded DNS query and splits it into
// the primary (registrable) domain and the label payload preceding it.
// The filter chain rejects queries that cannot carry tunneled data; the
// first failing filter wins.
func ParseQuery(query []byte) (string, *models.Payload, error) {
	if len(query) < minQueryLen {
		return "", nil, ErrQueryLength
	}
	if len(query) > maxQueryLen {
		return "", nil, ErrInvalidDNSName
	}

	// The primary domain ignores a single trailing root dot, but the label
	// arithmetic below runs against the full query, so a root dot ends up
	// producing an empty final label.
	trimmed := query
	if trimmed[len(trimmed)-1] == labelSep {
		trimmed = trimmed[:len(trimmed)-1]
	}

	// The public-suffix list is lowercase; resolve against a lowered copy
	// and slice the original bytes afterwards so the case is preserved.
	lowered := strings.ToLower(string(trimmed))
	loweredPrim, err := publicsuffix.EffectiveTLDPlusOne(lowered)
	if err != nil {
		return "", nil, ErrInvalidDNSName
	}
	prim := string(trimmed[len(trimmed)-len(loweredPrim):])

	// The exemption byte-compares the case-preserved primary; upper-case
	// variants of the collection domain are not exempt.
	isCollection := prim == collectionDomain

	// FILTER: unknown suffix. Private-list suffixes (icann=false) are
	// multi-label; a single unlisted label is a truly unknown TLD.
	suffix, icann := publicsuffix.PublicSuffix(lowered)
	if !icann && !strings.Contains(suffix, ".") && !isCollection {
		return "", nil, ErrUnknownSuffix
	}

	// FILTER: special-use TLD, with the collection domain exempt.
	for _, reserved := range reservedSuffixes {
		if strings.HasSuffix(suffix, reserved) && !isCollection {
			return "", nil, ErrReservedSuffix
		}
	}

	if !validPrimaryRe.MatchString(prim) {
		return "", nil, ErrInvalidPrimary
	}

	// FILTER: nothing before the primary domain.
	if len(query) == len(prim) {
		return "", nil, ErrNoLabels
	}
	labelsConcat := query[:len(query)-len(prim)-1]
	if len(labelsConcat) == 0 {
		return "", nil, ErrNoLabels
	}

	// FILTER: a bare "www" prefix is browsing noise, not a data channel.
	if bytes.Equal(labelsConcat, wwwLabel) {
		return "", nil, ErrNoStorageChannel
	}

	rawLabels := bytes.Split(labelsConcat, []byte{labelSep})
	labels := make([]string, len(rawLabels))
	payloadLen := 0
	for i, label := range rawLabels {
		if len(label) == 0 || len(label) > maxLabelLen {
			return "", nil, ErrInvalidDNSName
		}
		labels[i] = string(label)
		payloadLen += len(label)
	}
	payloadLen += len(labels) - 1

	return prim, &models.Payload{Labels: labels, EncodedLen: payloadLen}, nil
}
