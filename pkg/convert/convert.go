// Package convert translates source field values into destination-field
// values across two independent schemas. Three strategies are supported:
// Exact (value must name an existing option), Closest (lexically nearest
// option name), and Scale (rank-preserving mapping between two ordered
// value domains of different cardinality).
package convert

import (
	"math"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/pretagov/projectsmigrator/pkg/projects"
)

// Kind selects the conversion strategy for one field mapping.
type Kind int

// Conversion strategies.
const (
	Closest Kind = iota // nearest option name by similarity; always yields a result
	Exact               // value must equal an option name or ID; otherwise unset
	Scale               // fractional rank position mapped across ordered domains
)

// ParseKind parses a conversion-kind token from a mapping string.
// Unrecognized or empty tokens fall back to Closest.
func ParseKind(s string) Kind {
	switch strings.ToLower(s) {
	case "exact":
		return Exact
	case "scale":
		return Scale
	default:
		return Closest
	}
}

// String returns the canonical spelling of the kind.
func (k Kind) String() string {
	switch k {
	case Exact:
		return "Exact"
	case Scale:
		return "Scale"
	default:
		return "Closest"
	}
}

// Similarity returns a [0,1] similarity ratio between two strings, using
// the same longest-matching-subsequence ratio difflib computes. Matching
// is case-insensitive so that "high" still finds "High Priority".
func Similarity(a, b string) float64 {
	ra := runes(strings.ToLower(a))
	rb := runes(strings.ToLower(b))
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	return difflib.NewMatcher(ra, rb).Ratio()
}

// runes splits a string into one-rune elements for the sequence matcher.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// ClosestOption returns the destination option whose name is lexically
// nearest to value. Ties resolve to the first-encountered option, so the
// result is deterministic for a fixed option order. Returns nil only when
// there are no options.
func ClosestOption(value string, options []projects.Option) *projects.Option {
	var best *projects.Option
	bestScore := -1.0
	for i := range options {
		score := Similarity(value, options[i].Name)
		if score > bestScore {
			best = &options[i]
			bestScore = score
		}
	}
	return best
}

// ClosestName returns the candidate string nearest to value, or "" when
// there are no candidates.
func ClosestName(value string, candidates []string) string {
	best := ""
	bestScore := -1.0
	for _, c := range candidates {
		if score := Similarity(value, c); score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best
}

// ScaleIndex maps a rank within a source domain of srcLen entries onto an
// index in a destination domain of dstLen entries, preserving the
// fractional rank position and clamping to the valid range.
func ScaleIndex(rank, srcLen, dstLen int) int {
	if srcLen <= 0 || dstLen <= 0 {
		return 0
	}
	idx := int(math.Round(float64(rank) / float64(srcLen) * float64(dstLen)))
	if idx >= dstLen {
		idx = dstLen - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// ScaleOption converts a numeric source value into a destination option by
// rank: the value's position within its ordered source domain is mapped to
// the equivalent fractional position among the destination options.
// Returns nil when the value is absent from the domain or the destination
// has no options.
func ScaleOption(value float64, domain []float64, options []projects.Option) *projects.Option {
	if len(options) == 0 {
		return nil
	}
	rank := -1
	for i, v := range domain {
		if v == value {
			rank = i
			break
		}
	}
	if rank < 0 {
		return nil
	}
	return &options[ScaleIndex(rank, len(domain), len(options))]
}

// ScaleName is ScaleOption for string-valued ordered domains.
func ScaleName(value string, domain []string, options []projects.Option) *projects.Option {
	if len(options) == 0 {
		return nil
	}
	rank := -1
	for i, v := range domain {
		if v == value {
			rank = i
			break
		}
	}
	if rank < 0 {
		return nil
	}
	return &options[ScaleIndex(rank, len(domain), len(options))]
}

// Option resolves a source value against a destination field's option set
// under the given strategy. The domain arguments supply the ordered source
// domain for Scale conversions; at most one of them is consulted.
// A nil result means the value should be left unset.
func Option(value string, number *float64, kind Kind, field *projects.Field, nameDomain []string, numberDomain []float64) *projects.Option {
	switch kind {
	case Exact:
		if opt := field.OptionNamed(value); opt != nil {
			return opt
		}
		return field.Option(value)
	case Scale:
		if number != nil {
			return ScaleOption(*number, numberDomain, field.Options)
		}
		return ScaleName(value, nameDomain, field.Options)
	default:
		return ClosestOption(value, field.Options)
	}
}
