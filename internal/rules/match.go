package rules

import (
	"github.com/cboddy/i3-workspace-names-daemon/internal/state"
	"github.com/cboddy/i3-workspace-names-daemon/internal/util"
)

// UnknownLabel is used for windows that expose no usable field at all.
const UnknownLabel = "?"

// Resolution is the outcome of labelling one window.
type Resolution struct {
	Label string `json:"label"`
	// Unknown is set when no rule matched and unknown windows are ignored.
	// The label must then be dropped.
	Unknown bool `json:"unknown,omitempty"`
	// Fallback is set when no rule produced a label.
	Fallback bool        `json:"fallback,omitempty"`
	Field    state.Field `json:"field,omitempty"`
	Pattern  string      `json:"pattern,omitempty"`
}

// Resolve returns the label a window contributes to its workspace name. It is
// deterministic and has no side effects.
func (t *Table) Resolve(w state.Window) Resolution {
	for _, field := range state.Fields {
		value := w.Value(field)
		if value == "" {
			continue
		}
		entry, ok := t.match(value)
		if !ok {
			continue
		}
		if label, ok := t.apply(entry.Rule, w); ok {
			return Resolution{Label: label, Field: field, Pattern: entry.Pattern}
		}
	}
	return t.fallback(w)
}

func (t *Table) match(value string) (Entry, bool) {
	for _, e := range t.entries {
		if !e.Enabled() {
			continue
		}
		if e.Match.MatchString(value) {
			return e, true
		}
	}
	return Entry{}, false
}

func (t *Table) apply(rule Rule, w state.Window) (string, bool) {
	switch r := rule.(type) {
	case IconRule:
		return t.icons.Resolve(r.Icon)
	case TransformRule:
		return t.transform(r, w)
	default:
		return "", false
	}
}

func (t *Table) transform(r TransformRule, w state.Window) (string, bool) {
	source := w.Value(r.On)
	m := r.From.FindStringSubmatchIndex(source)
	if m == nil {
		if r.Icon == "" {
			return "", false
		}
		return t.icons.Resolve(r.Icon)
	}
	text := string(r.From.ExpandString(nil, r.To, source, m))
	if r.Compress {
		text = util.Compress(text, util.DefaultSegmentLength)
	}
	text = util.Truncate(text, t.opts.MaxTitleLength)
	prefix := ""
	if r.Icon != "" {
		prefix, _ = t.icons.Resolve(r.Icon)
	}
	return prefix + text, true
}

func (t *Table) fallback(w state.Window) Resolution {
	if t.opts.IgnoreUnknown {
		return Resolution{Unknown: true, Fallback: true}
	}
	field, value, ok := w.FirstValue()
	if !ok {
		return Resolution{Label: UnknownLabel, Fallback: true}
	}
	name := util.Truncate(value, t.opts.MaxTitleLength)
	if t.noMatch != "" {
		if glyph, ok := t.icons.Resolve(t.noMatch); ok {
			if t.opts.NoMatchNotShowName {
				name = ""
			}
			return Resolution{Label: glyph + name, Fallback: true, Field: field}
		}
	}
	return Resolution{Label: name, Fallback: true, Field: field}
}
