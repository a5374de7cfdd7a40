package models

import "strings"

// Normalize canonicalizes a reference network name and its aliases, so
// "S. pombe", "s-pombe" and "fission_yeast" all name "s_pombe". Unknown
// names are returned lowercased with separators folded to "_".
func Normalize(name string) string {
	normalized := strings.TrimSpace(strings.ToLower(name))
	normalized = strings.NewReplacer("-", "_", " ", "_", ".", "_").Replace(normalized)
	for strings.Contains(normalized, "__") {
		normalized = strings.ReplaceAll(normalized, "__", "_")
	}
	normalized = strings.Trim(normalized, "_")
	if normalized == "" {
		return ""
	}
	for _, candidate := range aliasCandidates(normalized) {
		if canonical, ok := canonicalName(candidate); ok {
			return canonical
		}
	}
	return normalized
}

func aliasCandidates(normalized string) []string {
	candidates := []string{normalized}
	trimmed := strings.Trim(strings.TrimPrefix(normalized, "model"), "_")
	if trimmed != "" && trimmed != normalized {
		candidates = append(candidates, trimmed)
	}
	for _, c := range candidates {
		if stripped := strings.TrimSuffix(c, "_cell_cycle"); stripped != c && stripped != "" {
			candidates = append(candidates, stripped)
		}
	}
	return candidates
}

func canonicalName(alias string) (string, bool) {
	switch strings.ReplaceAll(alias, "_", "") {
	case "spombe", "schizosaccharomycespombe", "fissionyeast":
		return "s_pombe", true
	default:
		return "", false
	}
}
