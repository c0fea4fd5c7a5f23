package config

// defaultRules is used when no rule file exists in the i3 config directory.
var defaultRules = []struct {
	pattern string
	icon    string
}{
	{"chromium-browser", "chrome"},
	{"firefox", "firefox"},
	{"x-terminal-emulator", "terminal"},
	{"thunderbird", "envelope"},
	{"jetbrains-idea-ce", "edit"},
	{"nautilus", "folder-open"},
	{"clementine", "music"},
	{"vlc", "play"},
	{"signal", "comment"},
}

// Default returns the built-in rule table.
func Default() *Config {
	rules := make(RuleTable, 0, len(defaultRules))
	for _, r := range defaultRules {
		rules = append(rules, RuleEntry{
			Pattern: r.pattern,
			Rule:    RuleConfig{Kind: RuleIcon, Icon: r.icon},
		})
	}
	return &Config{Rules: rules}
}
