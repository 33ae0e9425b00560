// Package logparse extracts structured hints from raw log excerpts before
// they are sent to the classification pipeline. Heuristic, best effort:
// a wrong severity or missed component degrades prompt quality, nothing else.
package logparse

import (
	"regexp"
	"sort"
	"strings"
)

// Analysis is the structured view of a log excerpt.
type Analysis struct {
	IsLog      bool     `json:"is_log"`
	Severity   string   `json:"severity"`
	Pattern    string   `json:"pattern"`
	Components []string `json:"components"`
}

var logIndicators = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`\d{2}:\d{2}:\d{2}`),
	regexp.MustCompile(`(?i)\b(ERROR|WARN|INFO|DEBUG|CRITICAL|FATAL)\b`),
	regexp.MustCompile(`\[[^\]]+\].*:`),
}

// Ordered: more urgent severities are checked first so a line mentioning
// both FATAL and INFO reports FATAL.
var severityPatterns = []struct {
	re       *regexp.Regexp
	severity string
}{
	{regexp.MustCompile(`(?i)\bFATAL\b`), "FATAL"},
	{regexp.MustCompile(`(?i)\bCRITICAL\b`), "CRITICAL"},
	{regexp.MustCompile(`(?i)\bERROR\b`), "ERROR"},
	{regexp.MustCompile(`(?i)\bWARN(ING)?\b`), "WARN"},
	{regexp.MustCompile(`(?i)\bDEBUG\b`), "DEBUG"},
	{regexp.MustCompile(`(?i)\bINFO\b`), "INFO"},
}

var componentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[([^\]]+)\]`),
	regexp.MustCompile(`(?i)component[=:](\w+)`),
	regexp.MustCompile(`(?i)service[=:](\w+)`),
}

var (
	timestampPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]?\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:?\d{2})?`)
	hexPattern       = regexp.MustCompile(`\b0x[0-9a-fA-F]+\b`)
	uuidPattern      = regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`)
	numberPattern    = regexp.MustCompile(`\b\d+\b`)
)

// IsLogFormat reports whether text looks like a log entry rather than a
// free-text incident description.
func IsLogFormat(text string) bool {
	for _, re := range logIndicators {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// ExtractSeverity returns the most urgent severity token present, defaulting
// to INFO when none is found.
func ExtractSeverity(text string) string {
	for _, sp := range severityPatterns {
		if sp.re.MatchString(text) {
			return sp.severity
		}
	}
	return "INFO"
}

// ExtractComponents returns the distinct bracketed tags and component= /
// service= values found in the text, sorted for stable output.
func ExtractComponents(text string) []string {
	seen := make(map[string]struct{})
	for _, re := range componentPatterns {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			if len(match) > 1 && match[1] != "" {
				seen[match[1]] = struct{}{}
			}
		}
	}

	components := make([]string, 0, len(seen))
	for c := range seen {
		components = append(components, c)
	}
	sort.Strings(components)
	return components
}

// NormalizePattern collapses variable tokens (timestamps, UUIDs, hex values,
// numbers) into placeholders, producing a stable template for a log line.
func NormalizePattern(text string) string {
	pattern := timestampPattern.ReplaceAllString(text, "<TS>")
	pattern = uuidPattern.ReplaceAllString(pattern, "<UUID>")
	pattern = hexPattern.ReplaceAllString(pattern, "<HEX>")
	pattern = numberPattern.ReplaceAllString(pattern, "<N>")
	return strings.TrimSpace(pattern)
}

// Analyze runs the full extraction over a log excerpt.
func Analyze(text string) Analysis {
	return Analysis{
		IsLog:      IsLogFormat(text),
		Severity:   ExtractSeverity(text),
		Pattern:    NormalizePattern(text),
		Components: ExtractComponents(text),
	}
}
