package rules

import (
	"regexp"
	"strings"

	"github.com/cboddy/i3-workspace-names-daemon/internal/config"
	"github.com/cboddy/i3-workspace-names-daemon/internal/icons"
	"github.com/cboddy/i3-workspace-names-daemon/internal/state"
)

// Rule is either an IconRule or a TransformRule.
type Rule interface {
	isRule()
}

// IconRule labels a window with an icon reference.
type IconRule struct {
	Icon string
}

// TransformRule labels a window with a rewritten field value, optionally
// prefixed by an icon.
type TransformRule struct {
	Icon     string
	From     *regexp.Regexp
	To       string
	Compress bool
	On       state.Field
}

func (IconRule) isRule()      {}
func (TransformRule) isRule() {}

// Entry is a compiled rule table entry. Entries with a nil Match or Rule
// come from malformed configuration and never match.
type Entry struct {
	Pattern string
	Match   *regexp.Regexp
	Rule    Rule
}

// Enabled reports whether the entry can take part in matching.
func (e Entry) Enabled() bool {
	return e.Match != nil && e.Rule != nil
}

// Table is a compiled rule table ready for label resolution. It is read-only
// after Compile and safe for concurrent use.
type Table struct {
	entries []Entry
	noMatch string
	icons   icons.Table
	opts    config.Options
}

// Compile turns a rule file into a Table. Malformed entries are kept but
// disabled; use config.Lint to report them.
func Compile(cfg *config.Config, iconTable icons.Table, opts config.Options) *Table {
	t := &Table{icons: iconTable, opts: opts}
	if cfg == nil {
		return t
	}
	t.noMatch, _ = cfg.Rules.NoMatch()
	for _, re := range cfg.Rules {
		if re.Pattern == config.NoMatchKey {
			continue
		}
		entry := Entry{Pattern: re.Pattern}
		if match, err := config.CompilePattern(re.Pattern); err == nil {
			entry.Match = match
		}
		entry.Rule = compileRule(re.Rule)
		t.entries = append(t.entries, entry)
	}
	return t
}

func compileRule(rc config.RuleConfig) Rule {
	switch rc.Kind {
	case config.RuleIcon:
		return IconRule{Icon: rc.Icon}
	case config.RuleMapping:
		if rc.Transform == nil {
			return IconRule{Icon: rc.Icon}
		}
		tc := rc.Transform
		if tc.From == nil || tc.To == nil {
			return nil
		}
		from, err := config.CompileTransform(*tc.From)
		if err != nil {
			return nil
		}
		on := state.FieldTitle
		if tc.On != "" {
			field, ok := state.ParseField(tc.On)
			if !ok {
				return nil
			}
			on = field
		}
		return TransformRule{
			Icon:     rc.Icon,
			From:     from,
			To:       convertReplacement(*tc.To),
			Compress: tc.Compress,
			On:       on,
		}
	default:
		return nil
	}
}

// Entries returns the compiled entries in match order.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Disabled returns the patterns of entries that can never match.
func (t *Table) Disabled() []string {
	var out []string
	for _, e := range t.entries {
		if !e.Enabled() {
			out = append(out, e.Pattern)
		}
	}
	return out
}

// Options returns the options the table was compiled with.
func (t *Table) Options() config.Options {
	return t.opts
}

// convertReplacement rewrites backslash group references (\1, \g<1>,
// \g<name>) into the ${name} form understood by regexp.Expand. Dollar
// references pass through untouched.
func convertReplacement(to string) string {
	if !strings.Contains(to, `\`) {
		return to
	}
	var b strings.Builder
	b.Grow(len(to) + 8)
	for i := 0; i < len(to); i++ {
		c := to[i]
		if c != '\\' || i+1 == len(to) {
			b.WriteByte(c)
			continue
		}
		next := to[i+1]
		switch {
		case next >= '1' && next <= '9':
			j := i + 2
			if j < len(to) && to[j] >= '0' && to[j] <= '9' {
				j++
			}
			b.WriteString("${" + to[i+1:j] + "}")
			i = j - 1
		case next == 'g' && i+2 < len(to) && to[i+2] == '<':
			end := strings.IndexByte(to[i+3:], '>')
			if end < 0 {
				b.WriteByte(c)
				continue
			}
			b.WriteString("${" + to[i+3:i+3+end] + "}")
			i = i + 3 + end
		case next == '\\':
			b.WriteByte('\\')
			i++
		case next == 'n':
			b.WriteByte('\n')
			i++
		case next == 't':
			b.WriteByte('\t')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
