package funcs

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/xdm"
	"github.com/platynui/xpath2/internal/xpatherr"
)

func registerRegexFuncs(b *Builder) {
	b.fn("matches", 2, 3, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		s, err := stringArg(args[0], "")
		if err != nil {
			return nil, err
		}
		pattern, err := stringArg(args[1], "")
		if err != nil {
			return nil, err
		}
		flags, err := flagsArg(args, 2)
		if err != nil {
			return nil, err
		}
		re, err := compileXPathRegex(pattern, flags)
		if err != nil {
			return nil, err
		}
		m, err := re.MatchString(s)
		if err != nil {
			return nil, xpatherr.New(xpatherr.FORX0002, "invalid regular expression: %s", err)
		}
		return boolResult(m), nil
	})
	b.fn("replace", 3, 4, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		s, err := stringArg(args[0], "")
		if err != nil {
			return nil, err
		}
		pattern, err := stringArg(args[1], "")
		if err != nil {
			return nil, err
		}
		repl, err := stringArg(args[2], "")
		if err != nil {
			return nil, err
		}
		flags, err := flagsArg(args, 3)
		if err != nil {
			return nil, err
		}
		re, err := compileXPathRegex(pattern, flags)
		if err != nil {
			return nil, err
		}
		out, err := replaceAll(re, s, repl)
		if err != nil {
			return nil, err
		}
		return strResult(out), nil
	})
	b.fn("tokenize", 2, 3, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		s, err := stringArg(args[0], "")
		if err != nil {
			return nil, err
		}
		pattern, err := stringArg(args[1], "")
		if err != nil {
			return nil, err
		}
		flags, err := flagsArg(args, 2)
		if err != nil {
			return nil, err
		}
		re, err := compileXPathRegex(pattern, flags)
		if err != nil {
			return nil, err
		}
		if s == "" {
			return nil, nil
		}
		var out xdm.Sequence
		pos := 0
		m, err := re.FindStringMatch(s)
		if err != nil {
			return nil, xpatherr.New(xpatherr.FORX0002, "invalid regular expression: %s", err)
		}
		for m != nil {
			start := m.Index
			if m.Length == 0 {
				m, err = re.FindNextMatch(m)
				if err != nil {
					return nil, xpatherr.New(xpatherr.FORX0002, "invalid regular expression: %s", err)
				}
				continue
			}
			out = append(out, xdm.NewAtomicItem(xdm.NewString(s[pos:start])))
			pos = start + m.Length
			m, err = re.FindNextMatch(m)
			if err != nil {
				return nil, xpatherr.New(xpatherr.FORX0002, "invalid regular expression: %s", err)
			}
		}
		out = append(out, xdm.NewAtomicItem(xdm.NewString(s[pos:])))
		return out, nil
	})
}

func flagsArg(args []xdm.Sequence, i int) (string, error) {
	if i >= len(args) {
		return "", nil
	}
	return stringArg(args[i], "")
}

// compileXPathRegex translates the XPath flag letters (i,s,m,x,q) to
// regexp2 option bits; q (literal matching) is applied by escaping the
// pattern's metacharacters before compiling rather than via an option,
// since regexp2 has no literal-match mode of its own.
func compileXPathRegex(pattern, flags string) (*regexp2.Regexp, error) {
	opts := regexp2.None
	literal := false
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 's':
			opts |= regexp2.Singleline
		case 'm':
			opts |= regexp2.Multiline
		case 'x':
			opts |= regexp2.IgnorePatternWhitespace
		case 'q':
			literal = true
		default:
			return nil, xpatherr.New(xpatherr.FORX0002, "invalid regular expression flag %q", string(f))
		}
	}
	if literal {
		pattern = regexpQuoteMeta(pattern)
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, xpatherr.New(xpatherr.FORX0002, "invalid regular expression: %s", err)
	}
	return re, nil
}

func regexpQuoteMeta(s string) string {
	const special = `\.+*?()|[]{}^$`
	var sb strings.Builder
	for _, r := range s {
		if strings.ContainsRune(special, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// replaceAll applies the XPath replacement-string rules: $1-$9 interpolate
// the corresponding capture group, $0 is invalid (FORX0004), \$ and \\
// are literal escapes, any other backslash escape is invalid.
func replaceAll(re *regexp2.Regexp, s, repl string) (string, error) {
	if err := validateReplacement(repl); err != nil {
		return "", err
	}
	var sb strings.Builder
	pos := 0
	m, err := re.FindStringMatch(s)
	if err != nil {
		return "", xpatherr.New(xpatherr.FORX0002, "invalid regular expression: %s", err)
	}
	for m != nil {
		start := m.Index
		if start < pos {
			start = pos
		}
		if start > len(s) {
			start = len(s)
		}
		sb.WriteString(s[pos:start])
		sb.WriteString(interpolate(repl, m))
		pos = m.Index + m.Length
		if pos < start {
			pos = start
		}
		next, nerr := re.FindNextMatch(m)
		if nerr != nil {
			return "", xpatherr.New(xpatherr.FORX0002, "invalid regular expression: %s", nerr)
		}
		m = next
	}
	if pos < len(s) {
		sb.WriteString(s[pos:])
	}
	return sb.String(), nil
}

func validateReplacement(repl string) error {
	runes := []rune(repl)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '$':
			if i+1 >= len(runes) || runes[i+1] < '0' || runes[i+1] > '9' {
				return xpatherr.New(xpatherr.FORX0004, "invalid replacement string: lone $")
			}
			if runes[i+1] == '0' {
				return xpatherr.New(xpatherr.FORX0004, "invalid replacement string: $0 is not a valid group reference")
			}
			i++
		case '\\':
			if i+1 >= len(runes) || (runes[i+1] != '$' && runes[i+1] != '\\') {
				return xpatherr.New(xpatherr.FORX0004, "invalid replacement string: lone backslash")
			}
			i++
		}
	}
	return nil
}

func interpolate(repl string, m *regexp2.Match) string {
	runes := []rune(repl)
	var sb strings.Builder
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '$':
			i++
			n := int(runes[i] - '0')
			g := m.GroupByNumber(n)
			if g != nil && len(g.Captures) > 0 {
				sb.WriteString(g.String())
			}
		case '\\':
			i++
			sb.WriteRune(runes[i])
		default:
			sb.WriteRune(runes[i])
		}
	}
	return sb.String()
}
