package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cboddy/i3-workspace-names-daemon/internal/icons"
)

func patterns(t RuleTable) []string {
	out := make([]string, 0, len(t))
	for _, e := range t {
		out = append(out, e.Pattern)
	}
	return out
}

func TestParsePreservesOrderAndLowercases(t *testing.T) {
	cfg, err := Parse([]byte(`{
  "Zathura": "file-pdf",
  "firefox": "firefox",
  "Emacs": {"icon": "edit", "transform_title": {"from": ".*\\[(.+?)\\].*", "to": "\\1", "compress": true}},
  "_no_match": "question"
}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff([]string{"zathura", "firefox", "emacs", "_no_match"}, patterns(cfg.Rules)); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
	emacs := cfg.Rules[2].Rule
	if emacs.Kind != RuleMapping || emacs.Icon != "edit" || emacs.Transform == nil {
		t.Fatalf("unexpected emacs rule: %#v", emacs)
	}
	if *emacs.Transform.From != `.*\[(.+?)\].*` || *emacs.Transform.To != `\1` || !emacs.Transform.Compress {
		t.Fatalf("unexpected transform: %#v", emacs.Transform)
	}
	if icon, ok := cfg.Rules.NoMatch(); !ok || icon != "question" {
		t.Fatalf("NoMatch = (%q, %v)", icon, ok)
	}
}

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte("firefox: firefox\nmpv:\n  icon: play\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Rules) != 2 || cfg.Rules[1].Rule.Icon != "play" {
		t.Fatalf("unexpected rules: %#v", cfg.Rules)
	}
}

func TestParseCollidingKeysKeepFirstPosition(t *testing.T) {
	cfg, err := Parse([]byte(`{"Firefox": "globe", "vlc": "play", "firefox": "firefox"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff([]string{"firefox", "vlc"}, patterns(cfg.Rules)); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
	if cfg.Rules[0].Rule.Icon != "firefox" {
		t.Fatalf("expected later value to win, got %q", cfg.Rules[0].Rule.Icon)
	}
	if errs := cfg.Lint(icons.Default()); len(errs) != 1 || !strings.Contains(errs[0].Message, "duplicate") {
		t.Fatalf("expected one duplicate lint error, got %v", errs)
	}
}

func TestParseRejectsNonMapping(t *testing.T) {
	if _, err := Parse([]byte(`["firefox"]`)); err == nil {
		t.Fatalf("expected error for list document")
	}
}

func TestParseJSONEscapes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "escaped slash", doc: `{"firefox": "<span font='FontAwesome'>\uf269<\/span>"}`, want: "<span font='FontAwesome'>\uf269</span>"},
		{name: "surrogate pair", doc: `{"emoji": "\ud83d\ude00"}`, want: "\U0001F600"},
		{name: "inside transform", doc: `{"emacs": {"icon": "\ud83d\ude00", "transform_title": {"from": "a\/(.*)", "to": "\\1"}}}`, want: "\U0001F600"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.doc))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(cfg.Rules) != 1 || cfg.Rules[0].Rule.Icon != tt.want {
				t.Fatalf("unexpected rules: %#v", cfg.Rules)
			}
		})
	}
}

func TestParseTransformTitle(t *testing.T) {
	docs := map[string]string{
		"json": `{"emacs": {"icon": "play", "transform_title": {"from": ".*\\[(.+?)\\].*", "to": "\\1", "on": "window_class", "compress": true}}}`,
		"yaml": "emacs:\n  icon: play\n  transform_title:\n    from: '.*\\[(.+?)\\].*'\n    to: '\\1'\n    on: window_class\n    compress: true\n",
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			cfg, err := Parse([]byte(doc))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			rule := cfg.Rules[0].Rule
			if rule.Kind != RuleMapping || rule.Icon != "play" || rule.Transform == nil {
				t.Fatalf("unexpected rule: %#v", rule)
			}
			tc := rule.Transform
			if tc.From == nil || *tc.From != `.*\[(.+?)\].*` || tc.To == nil || *tc.To != `\1` || tc.On != "window_class" || !tc.Compress {
				t.Fatalf("unexpected transform: %#v", tc)
			}
			if errs := cfg.Lint(icons.Default()); len(errs) != 0 {
				t.Fatalf("expected clean lint, got %v", errs)
			}
		})
	}

	cfg, err := Parse([]byte(`{"emacs": {"transform_title": {"from": "x", "to": "y", "compress": "yes"}}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rule := cfg.Rules[0].Rule; rule.Kind != RuleInvalid || !strings.Contains(rule.Problem, "compress must be a boolean") {
		t.Fatalf("expected invalid compress to be rejected, got %#v", rule)
	}
}

func TestParseJSONLines(t *testing.T) {
	cfg, err := Parse([]byte("{\n  \"firefox\": \"globe\",\n  \"vlc\": \"play\",\n  \"Firefox\": \"firefox\"\n}"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Rules[0].Line != 2 || cfg.Rules[1].Line != 3 {
		t.Fatalf("unexpected lines: %d, %d", cfg.Rules[0].Line, cfg.Rules[1].Line)
	}
	errs := cfg.Lint(icons.Default())
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "lines 2 and 4") {
		t.Fatalf("expected duplicate reported with lines, got %v", errs)
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Rules) != 0 {
		t.Fatalf("expected empty table, got %v", cfg.Rules)
	}
}

func TestDefaultRules(t *testing.T) {
	cfg := Default()
	if cfg.Path != "" {
		t.Fatalf("default config should have no path")
	}
	if len(cfg.Rules) != len(defaultRules) || cfg.Rules[0].Pattern != "chromium-browser" {
		t.Fatalf("unexpected default rules: %#v", cfg.Rules)
	}
	if errs := cfg.Lint(icons.Default()); len(errs) != 0 {
		t.Fatalf("default rules should lint clean, got %v", errs)
	}
}

func TestLocate(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if _, err := Locate(""); !errors.Is(err, ErrNoI3Dir) {
		t.Fatalf("expected ErrNoI3Dir without i3 dirs, got %v", err)
	}

	i3dir := filepath.Join(home, ".config", "i3")
	if err := os.MkdirAll(i3dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path, err := Locate("")
	if err != nil || path != "" {
		t.Fatalf("expected defaults when no rule file exists, got (%q, %v)", path, err)
	}

	rules := filepath.Join(i3dir, "app-icons.json")
	if err := os.WriteFile(rules, []byte(`{"firefox": "firefox"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if path, err := Locate(""); err != nil || path != rules {
		t.Fatalf("Locate = (%q, %v), want %q", path, err, rules)
	}

	if _, err := Locate(filepath.Join(home, "not_existing")); err == nil {
		t.Fatalf("expected error for missing explicit path")
	}
	if _, err := Locate(i3dir); err == nil {
		t.Fatalf("expected error for explicit directory path")
	}

	cfg, raw, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Path != rules || len(raw) == 0 || len(cfg.Rules) != 1 {
		t.Fatalf("unexpected load result: %#v", cfg)
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("default options invalid: %v", err)
	}
	opts := DefaultOptions()
	opts.MaxTitleLength = -1
	if err := opts.Validate(); err == nil {
		t.Fatalf("expected negative max length to fail")
	}
}
