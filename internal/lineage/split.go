package lineage

import (
	"strings"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
	"github.com/sqlweave-labs/sqlweave/pkg/dialect"
)

// SplitQualified splits a raw dotted reference into its name parts. A dot
// inside a double-quoted, backtick-quoted, single-quoted, or bracket-quoted
// span is not a separator; a doubled closing quote inside a quoted span is
// an escaped literal quote. Each part records whether it was quoted. Empty
// input yields nil. The accepted quote set is the union over all dialects,
// so splitting itself needs no dialect.
func SplitQualified(raw string) []core.NamePart {
	if raw == "" {
		return nil
	}

	var parts []core.NamePart
	var buf strings.Builder
	quoted := false

	i := 0
	for i < len(raw) {
		c := raw[i]
		switch c {
		case '"', '`', '\'':
			quoted = true
			i += readQuoted(raw[i+1:], c, &buf) + 1
		case '[':
			quoted = true
			i += readQuoted(raw[i+1:], ']', &buf) + 1
		case '.':
			parts = append(parts, core.NamePart{Text: buf.String(), Quoted: quoted})
			buf.Reset()
			quoted = false
			i++
		default:
			buf.WriteByte(c)
			i++
		}
	}
	parts = append(parts, core.NamePart{Text: buf.String(), Quoted: quoted})
	return parts
}

// readQuoted consumes a quoted span from s until the closing quote,
// unescaping doubled closers, and returns the number of bytes consumed
// including the closer.
func readQuoted(s string, close byte, buf *strings.Builder) int {
	i := 0
	for i < len(s) {
		if s[i] == close {
			if i+1 < len(s) && s[i+1] == close {
				buf.WriteByte(close)
				i += 2
				continue
			}
			return i + 1
		}
		buf.WriteByte(s[i])
		i++
	}
	return i
}

// NormalizePart applies case normalization to one name part. Quoted parts
// pass through verbatim; unquoted parts follow the caller's override when
// set, otherwise the dialect's folding strategy.
func NormalizePart(part core.NamePart, d *dialect.Dialect, override core.CaseOverride) string {
	if part.Quoted {
		return part.Text
	}
	switch override {
	case core.CaseLower:
		return strings.ToLower(part.Text)
	case core.CaseUpper:
		return strings.ToUpper(part.Text)
	case core.CaseExact:
		return part.Text
	}
	return d.NormalizeName(part.Text)
}

// NormalizeParts normalizes each part in order.
func NormalizeParts(parts []core.NamePart, d *dialect.Dialect, override core.CaseOverride) []string {
	if len(parts) == 0 {
		return nil
	}
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = NormalizePart(p, d, override)
	}
	return out
}

// NormalizeQualified splits raw and joins the normalized parts back with
// dots, producing a comparable canonical form.
func NormalizeQualified(raw string, d *dialect.Dialect, override core.CaseOverride) string {
	return strings.Join(NormalizeParts(SplitQualified(raw), d, override), ".")
}
