package config

import (
	"fmt"
	"regexp"

	"github.com/cboddy/i3-workspace-names-daemon/internal/icons"
	"github.com/cboddy/i3-workspace-names-daemon/internal/state"
)

// LintError describes a single configuration problem.
type LintError struct {
	Path    string
	Message string
}

func (e LintError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// CompilePattern compiles a rule table key. Matching is a case-insensitive search.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}

// CompileTransform compiles a transform_title "from" expression anchored at
// both ends.
func CompileTransform(from string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + from + ")$")
}

// Lint reports unknown icons, malformed transform_title rules, invalid
// patterns and colliding keys. Problems never stop the rules from loading:
// a broken entry simply never matches.
func (c *Config) Lint(table icons.Table) []LintError {
	var errs []LintError
	errs = append(errs, c.duplicates...)
	for _, entry := range c.Rules {
		path := entry.Pattern
		if entry.Pattern == NoMatchKey {
			switch {
			case entry.Rule.Kind != RuleIcon:
				errs = append(errs, LintError{Path: path, Message: "fallback must be an icon name"})
			case !knownIcon(table, entry.Rule.Icon):
				errs = append(errs, LintError{Path: path, Message: fmt.Sprintf("unknown icon %q", entry.Rule.Icon)})
			}
			continue
		}
		if _, err := CompilePattern(entry.Pattern); err != nil {
			errs = append(errs, LintError{Path: path, Message: fmt.Sprintf("invalid pattern: %v", err)})
		}
		errs = append(errs, lintRule(path, entry.Rule, table)...)
	}
	return errs
}

func lintRule(path string, rule RuleConfig, table icons.Table) []LintError {
	var errs []LintError
	switch rule.Kind {
	case RuleInvalid:
		return []LintError{{Path: path, Message: rule.Problem}}
	case RuleIcon:
		if !knownIcon(table, rule.Icon) {
			errs = append(errs, LintError{Path: path, Message: fmt.Sprintf("unknown icon %q", rule.Icon)})
		}
	case RuleMapping:
		if rule.Icon != "" && !knownIcon(table, rule.Icon) {
			errs = append(errs, LintError{Path: path + ".icon", Message: fmt.Sprintf("unknown icon %q", rule.Icon)})
		}
		if rule.Transform != nil {
			errs = append(errs, lintTransform(path+".transform_title", rule.Transform)...)
		}
	}
	return errs
}

func lintTransform(path string, tc *TransformConfig) []LintError {
	var errs []LintError
	if tc.From == nil {
		errs = append(errs, LintError{Path: path, Message: `missing "from"`})
	} else if _, err := CompileTransform(*tc.From); err != nil {
		errs = append(errs, LintError{Path: path + ".from", Message: fmt.Sprintf("invalid regular expression: %v", err)})
	}
	if tc.To == nil {
		errs = append(errs, LintError{Path: path, Message: `missing "to"`})
	}
	if tc.On != "" {
		if _, ok := state.ParseField(tc.On); !ok {
			errs = append(errs, LintError{Path: path + ".on", Message: fmt.Sprintf("unknown window field %q", tc.On)})
		}
	}
	return errs
}

func knownIcon(table icons.Table, ref string) bool {
	_, ok := table.Resolve(ref)
	return ok
}

// LintFile loads path and lints it against the provided icon table.
func LintFile(path string, table icons.Table) ([]LintError, error) {
	cfg, _, err := Load(path)
	if err != nil {
		return nil, err
	}
	return cfg.Lint(table), nil
}
