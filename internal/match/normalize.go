package match

import (
	"strings"
	"unicode"
)

// memberPrefix is the prefix Havok C++ members carry in some dumps.
const memberPrefix = "m_"

// NormalizeIdent normalizes an identifier for fuzzy matching:
// the member prefix and scope qualifiers are dropped, CamelCase and
// separators are folded away and the result is lowercased.
// "m_linearVelocity" and "LinearVelocity" normalize to the same text.
func NormalizeIdent(s string) string {
	s = strings.TrimPrefix(s, memberPrefix)
	if i := strings.LastIndex(s, "::"); i >= 0 {
		s = s[i+2:]
	}

	return strings.Join(TokenizeIdent(s), "")
}

// TokenizeIdent splits an identifier into lowercase tokens.
//   - "maxLinearVelocity" -> ["max", "linear", "velocity"]
//   - "hkpRigidBody" -> ["hkp", "rigid", "body"]
//   - "numContactsToIgnore2" -> ["num", "contacts", "to", "ignore", "2"]
func TokenizeIdent(s string) []string {
	tokens := tokenizeCamelCase(strings.TrimPrefix(s, memberPrefix))
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

func tokenizeCamelCase(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == ':' || r == '.'
}

// startsToken reports whether a new token begins at runes[i]:
// lower-to-upper, the last capital of an acronym, or a letter/digit switch.
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if isSeparator(prev) {
		return false
	}

	switch {
	case unicode.IsUpper(r) && !unicode.IsUpper(prev):
		return true
	case unicode.IsUpper(r) && unicode.IsUpper(prev):
		return i+1 < len(runes) && unicode.IsLower(runes[i+1])
	case unicode.IsDigit(r) != unicode.IsDigit(prev):
		return true
	}

	return false
}
