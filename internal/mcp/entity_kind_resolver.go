package mcp

import (
	"fmt"
	"strings"

	"github.com/hbollon/go-edlib"
)

// EntityKindResolution is the outcome of resolving one entity-kind input.
type EntityKindResolution struct {
	Original  string // what the client sent
	Resolved  string // canonical kind, empty if no match
	MatchType string // "exact", "alias", "prefix", "fuzzy", "none"
	Warning   string // set for prefix/fuzzy/none matches
}

// CanonicalEntityKinds are the result sections a client can select. They
// mirror the AnalysisResult collections.
var CanonicalEntityKinds = []string{
	"components", "functions", "hooks", "imports", "exports",
	"interfaces", "types", "dependencies", "complexity", "patterns",
}

// entityKindAliases maps singulars, abbreviations, and near-synonyms to
// canonical kinds. Clients driven by language models rarely send the exact
// canonical string.
var entityKindAliases = map[string]string{
	"component": "components",
	"comp":      "components",

	"function": "functions",
	"func":     "functions",
	"fn":       "functions",
	"methods":  "functions",
	"method":   "functions",

	"hook":    "hooks",
	"usages":  "hooks",
	"effects": "hooks",

	"import": "imports",
	"export": "exports",

	"interface": "interfaces",
	"iface":     "interfaces",

	"type":    "types",
	"aliases": "types",

	"dependency": "dependencies",
	"deps":       "dependencies",
	"dep":        "dependencies",

	"metrics": "complexity",

	"pattern":    "patterns",
	"heuristics": "patterns",
}

// EntityKindResolver validates and resolves entity-kind filter inputs.
// Resolution priority: exact match > alias > prefix > fuzzy.
type EntityKindResolver struct {
	valid   map[string]bool
	aliases map[string]string
}

// NewEntityKindResolver builds a resolver over the canonical kinds.
func NewEntityKindResolver() *EntityKindResolver {
	valid := make(map[string]bool, len(CanonicalEntityKinds))
	for _, k := range CanonicalEntityKinds {
		valid[k] = true
	}
	return &EntityKindResolver{valid: valid, aliases: entityKindAliases}
}

// Resolve maps one input to a canonical kind.
func (r *EntityKindResolver) Resolve(input string) EntityKindResolution {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return EntityKindResolution{Original: input, MatchType: "none"}
	}

	if r.valid[normalized] {
		return EntityKindResolution{Original: input, Resolved: normalized, MatchType: "exact"}
	}

	if canonical, ok := r.aliases[normalized]; ok {
		return EntityKindResolution{Original: input, Resolved: canonical, MatchType: "alias"}
	}

	// Prefix match needs 3 chars to stay unambiguous.
	if len(normalized) >= 3 {
		for _, canonical := range CanonicalEntityKinds {
			if strings.HasPrefix(canonical, normalized) {
				return EntityKindResolution{
					Original:  input,
					Resolved:  canonical,
					MatchType: "prefix",
					Warning:   fmt.Sprintf("'%s' interpreted as '%s' (prefix match)", input, canonical),
				}
			}
		}
	}

	if best, distance := r.closestKind(normalized); distance > 0 && distance <= 2 {
		return EntityKindResolution{
			Original:  input,
			Resolved:  best,
			MatchType: "fuzzy",
			Warning:   fmt.Sprintf("'%s' interpreted as '%s' (did you mean '%s'?)", input, best, best),
		}
	}

	return EntityKindResolution{
		Original:  input,
		MatchType: "none",
		Warning:   fmt.Sprintf("unknown entity kind '%s'", input),
	}
}

func (r *EntityKindResolver) closestKind(input string) (string, int) {
	best := ""
	bestDistance := 1000
	for _, canonical := range CanonicalEntityKinds {
		distance := edlib.LevenshteinDistance(input, canonical)
		if distance < bestDistance {
			bestDistance = distance
			best = canonical
		}
	}
	return best, bestDistance
}

// ResolveAll resolves a comma-separated list, deduplicating results and
// collecting warnings for non-exact matches.
func (r *EntityKindResolver) ResolveAll(input string) ([]string, []string) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	var resolved []string
	var warnings []string
	seen := map[string]bool{}
	for _, item := range strings.Split(input, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		res := r.Resolve(item)
		if res.Resolved != "" && !seen[res.Resolved] {
			resolved = append(resolved, res.Resolved)
			seen[res.Resolved] = true
		}
		if res.Warning != "" {
			warnings = append(warnings, res.Warning)
		}
	}
	return resolved, warnings
}
