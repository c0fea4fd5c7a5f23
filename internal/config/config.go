package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// NoMatchKey names the fallback icon entry of a rule table. It is never
// treated as a pattern.
const NoMatchKey = "_no_match"

// FileNames lists the rule file names searched for inside an i3 config
// directory, in order.
var FileNames = []string{"app-icons.json", "app-icons.yaml", "app-icons.yml"}

// Config is a loaded rule file.
type Config struct {
	// Path is the file the rules were read from, empty for the built-in defaults.
	Path  string
	Rules RuleTable

	duplicates []LintError
}

// RuleTable is the ordered list of pattern to rule entries. The first matching
// pattern wins, so order is part of the contract.
type RuleTable []RuleEntry

// RuleEntry binds a lower-cased pattern to its rule.
type RuleEntry struct {
	Pattern string
	Rule    RuleConfig
	Line    int
}

// RuleKind tags the shape of a rule value.
type RuleKind int

const (
	// RuleInvalid marks a value that is neither a string nor a mapping.
	RuleInvalid RuleKind = iota
	// RuleIcon is a plain icon identifier or markup string.
	RuleIcon
	// RuleMapping is a structured rule with optional icon and transform_title.
	RuleMapping
)

// RuleConfig is the decoded value of one rule table entry.
type RuleConfig struct {
	Kind      RuleKind
	Icon      string
	Transform *TransformConfig
	// Problem explains why a RuleInvalid value was rejected.
	Problem string
}

// TransformConfig rewrites a window field through an anchored regular expression.
type TransformConfig struct {
	From     *string `yaml:"from"`
	To       *string `yaml:"to"`
	Compress bool    `yaml:"compress"`
	On       string  `yaml:"on"`
}

// UnmarshalYAML walks the root mapping so key order survives decoding. Keys
// are lower-cased; when two keys collide the later value replaces the earlier
// one in the earlier position.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		return nil
	}
	if value.Kind == yaml.DocumentNode && len(value.Content) == 1 {
		value = value.Content[0]
	}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		c.Rules = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("rule file must be a mapping of pattern to rule")
	}
	rules := make(RuleTable, 0, len(value.Content)/2)
	index := make(map[string]int, len(value.Content)/2)
	var duplicates []LintError
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: rule pattern must be a string", keyNode.Line)
		}
		pattern := strings.ToLower(keyNode.Value)
		entry := RuleEntry{
			Pattern: pattern,
			Rule:    decodeRule(valNode),
			Line:    keyNode.Line,
		}
		if pos, exists := index[pattern]; exists {
			duplicates = append(duplicates, LintError{
				Path:    pattern,
				Message: fmt.Sprintf("duplicate pattern (lines %d and %d); the later entry wins", rules[pos].Line, keyNode.Line),
			})
			rules[pos].Rule = entry.Rule
			continue
		}
		index[pattern] = len(rules)
		rules = append(rules, entry)
	}
	c.Rules = rules
	c.duplicates = duplicates
	return nil
}

func decodeRule(node *yaml.Node) RuleConfig {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return RuleConfig{Kind: RuleInvalid, Problem: "rule must be an icon name or a mapping, got null"}
		}
		return RuleConfig{Kind: RuleIcon, Icon: node.Value}
	case yaml.MappingNode:
		rule := RuleConfig{Kind: RuleMapping}
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			switch key.Value {
			case "icon":
				if val.Kind != yaml.ScalarNode || val.Tag == "!!null" {
					return RuleConfig{Kind: RuleInvalid, Problem: "icon must be a string"}
				}
				rule.Icon = val.Value
			case "transform_title":
				if val.Kind != yaml.MappingNode {
					return RuleConfig{Kind: RuleInvalid, Problem: "transform_title must be a mapping"}
				}
				tc, err := decodeTransform(val)
				if err != nil {
					return RuleConfig{Kind: RuleInvalid, Problem: fmt.Sprintf("decode transform_title: %v", err)}
				}
				rule.Transform = tc
			}
		}
		return rule
	default:
		return RuleConfig{Kind: RuleInvalid, Problem: "rule must be an icon name or a mapping"}
	}
}

func decodeTransform(node *yaml.Node) (*TransformConfig, error) {
	var tc TransformConfig
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: %s must be a scalar", val.Line, key.Value)
		}
		if val.Tag == "!!null" {
			continue
		}
		value := val.Value
		switch key.Value {
		case "from":
			tc.From = &value
		case "to":
			tc.To = &value
		case "on":
			tc.On = value
		case "compress":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("line %d: compress must be a boolean, got %q", val.Line, value)
			}
			tc.Compress = b
		}
	}
	return &tc, nil
}

// NoMatch returns the fallback icon reference when the table defines one.
func (t RuleTable) NoMatch() (string, bool) {
	for _, entry := range t {
		if entry.Pattern == NoMatchKey && entry.Rule.Kind == RuleIcon {
			return entry.Rule.Icon, true
		}
	}
	return "", false
}

// Parse decodes a JSON or YAML rule file. Valid JSON goes through
// encoding/json so its escapes (\/, surrogate pairs) are honoured; anything
// else is read as YAML.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if json.Valid(data) {
		root, err := jsonNode(data)
		if err != nil {
			return nil, fmt.Errorf("decode rules: %w", err)
		}
		if err := cfg.UnmarshalYAML(root); err != nil {
			return nil, fmt.Errorf("decode rules: %w", err)
		}
		return &cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	return &cfg, nil
}

// Load reads a rule file and returns it alongside its raw bytes.
func Load(path string) (*Config, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read rules: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, data, err
	}
	cfg.Path = path
	return cfg, data, nil
}

// ErrNoI3Dir is returned when no explicit path is given and none of the
// standard i3 config directories exist.
var ErrNoI3Dir = errors.New("could not find i3 config directory")

// I3Dirs returns the standard i3 configuration directories in search order.
func I3Dirs() []string {
	home, _ := os.UserHomeDir()
	return []string{filepath.Join(home, ".i3"), filepath.Join(home, ".config", "i3")}
}

// Locate picks the rule file to use. An explicit path must exist. Without one
// the first i3 config directory is searched; an empty result with a nil error
// means the built-in defaults apply.
func Locate(explicit string) (string, error) {
	if explicit != "" {
		info, err := os.Stat(explicit)
		if err != nil || info.IsDir() {
			return "", fmt.Errorf("specified rule file %q does not exist", explicit)
		}
		return explicit, nil
	}
	dirs := I3Dirs()
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
		return "", nil
	}
	return "", fmt.Errorf("%w: expected one of %s", ErrNoI3Dir, strings.Join(dirs, ", "))
}

// LoadOrDefault locates and loads the rule file, falling back to the built-in
// defaults when no file is present.
func LoadOrDefault(explicit string) (*Config, []byte, error) {
	path, err := Locate(explicit)
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return Default(), nil, nil
	}
	return Load(path)
}
