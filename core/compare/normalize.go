package compare

import (
	"regexp"
	"strings"

	"schema-compare/core/schema"
)

var (
	defaultKeyword   = regexp.MustCompile(`^default\s+`)
	currentTimestamp = regexp.MustCompile(`^current_timestamp(\(\d*\))?$`)
	numericLiteral   = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?(e[+-]?[0-9]+)?$`)
)

// NormalizeDefault lowercases a default expression, drops a leading DEFAULT
// keyword and unwraps one layer of quotes.
func NormalizeDefault(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = defaultKeyword.ReplaceAllString(v, "")
	return unquote(v)
}

func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '\'' || first == '"') && first == last {
			return v[1 : len(v)-1]
		}
	}
	return v
}

// IsNullDefault reports whether a default expression means "no default".
func IsNullDefault(value *string) bool {
	if value == nil {
		return true
	}
	v := strings.ToLower(strings.TrimSpace(*value))
	switch v {
	case "", "null", "'null'", `"null"`, "default", "default null", "default 'null'", `default "null"`, "''", `""`:
		return true
	}
	return NormalizeDefault(v) == "null"
}

// IsCurrentTimestampDefault reports whether a default is CURRENT_TIMESTAMP,
// with or without a fractional-seconds precision.
func IsCurrentTimestampDefault(value *string) bool {
	if value == nil {
		return false
	}
	return currentTimestamp.MatchString(NormalizeDefault(*value))
}

// IsNumericDefault reports whether a default is an integer, decimal or
// exponential literal.
func IsNumericDefault(value *string) bool {
	if value == nil {
		return false
	}
	return numericLiteral.MatchString(NormalizeDefault(*value))
}

// NormalizeNumeric strips redundant zeros from a numeric literal:
// "007" becomes "7", "1.50" becomes "1.5" and "2.0" becomes "2".
func NormalizeNumeric(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	sign := ""
	switch {
	case strings.HasPrefix(v, "-"):
		sign, v = "-", v[1:]
	case strings.HasPrefix(v, "+"):
		v = v[1:]
	}

	mantissa, exponent, hasExponent := strings.Cut(v, "e")
	whole, fraction, _ := strings.Cut(mantissa, ".")

	whole = strings.TrimLeft(whole, "0")
	if whole == "" {
		whole = "0"
	}
	fraction = strings.TrimRight(fraction, "0")

	out := whole
	if fraction != "" {
		out += "." + fraction
	}
	if out == "0" {
		sign = ""
	}
	if hasExponent {
		expSign := ""
		switch {
		case strings.HasPrefix(exponent, "-"):
			expSign, exponent = "-", exponent[1:]
		case strings.HasPrefix(exponent, "+"):
			exponent = exponent[1:]
		}
		exponent = strings.TrimLeft(exponent, "0")
		if exponent != "" {
			out += "e" + expSign + exponent
		}
	}
	return sign + out
}

// DefaultsEquivalent decides whether two default values mean the same thing.
// Search engines do not expose defaults, so a non-null default facing a
// search-engine column is accepted as is.
func DefaultsEquivalent(source, target *string, sourceTag, targetTag schema.SystemTag) bool {
	if source == nil && target == nil {
		return true
	}
	if (sourceTag.IsDocumentSearch() && target != nil) || (targetTag.IsDocumentSearch() && source != nil) {
		return true
	}

	srcNull, tgtNull := IsNullDefault(source), IsNullDefault(target)
	if srcNull || tgtNull {
		return srcNull && tgtNull
	}

	if IsCurrentTimestampDefault(source) && IsCurrentTimestampDefault(target) {
		return true
	}

	src, tgt := NormalizeDefault(*source), NormalizeDefault(*target)
	if IsNumericDefault(source) && IsNumericDefault(target) {
		return NormalizeNumeric(src) == NormalizeNumeric(tgt)
	}
	return src == tgt
}

// CommentsEquivalent decides whether two comments should be treated as equal.
func CommentsEquivalent(source, target *string, sourceTag, targetTag schema.SystemTag) bool {
	if source == nil && target == nil {
		return true
	}
	if sourceTag.IsRelational() && targetTag.IsRelational() {
		return strings.TrimSpace(deref(source)) == strings.TrimSpace(deref(target))
	}
	if (sourceTag.IsDocumentSearch() && targetTag.IsRelational()) ||
		(targetTag.IsDocumentSearch() && sourceTag.IsRelational()) {
		return true
	}
	if source == nil || target == nil {
		return false
	}
	return *source == *target
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
