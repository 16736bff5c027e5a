package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/starford/pactum/internal/textnorm"
)

// enumeratorRe matches an enumerator token at the start of its input:
// "(a)", "(iv)", "a.", "B)", "iv.", "2.", "3)" followed by whitespace.
var enumeratorRe = regexp.MustCompile(`^((?:\([a-zA-Z]+\))|(?:[a-zA-Z]+[.)])|(?:\d+[.)]))\s+`)

// bulletEdgeChars are stripped from the word after a leading numeral before
// it is compared with the sentence-start list.
const bulletEdgeChars = "“”\"'()[]{}.,;:"

// enumerator is one token found by the exploder.
type enumerator struct {
	start, end int // byte offsets of the token match, trailing whitespace included
	token      string
}

// explodeInlineBullets splits a line holding several enumerated items into
// one line per item, keeping any leading preamble as its own line.
func explodeInlineBullets(line string) []string {
	tokens := findEnumerators(line)
	if len(tokens) == 0 {
		return []string{line}
	}

	first := tokens[0]
	if first.start == 0 && isDigits(first.token[:len(first.token)-1]) {
		body := strings.TrimLeftFunc(line[first.end:], unicode.IsSpace)
		word := ""
		if f := strings.Fields(body); len(f) > 0 {
			word = strings.Trim(f[0], bulletEdgeChars)
		}
		if isSentenceStart(word) {
			return []string{line}
		}
	}

	var parts []string
	if pre := textnorm.NormalizeWhitespace(line[:first.start]); pre != "" {
		parts = append(parts, pre)
	}
	for i, tok := range tokens {
		end := len(line)
		if i+1 < len(tokens) {
			end = tokens[i+1].start
		}
		if body := textnorm.NormalizeWhitespace(line[tok.end:end]); body != "" {
			parts = append(parts, tok.token+" "+body)
		}
	}
	return parts
}

// findEnumerators scans line for enumerator tokens. A token counts when it
// opens the line or follows ";" or ":" plus one whitespace rune. A token that
// continues the previous one's sequence ("b." after "a.", "(ii)" after "(i)")
// also counts when it follows any whitespace.
func findEnumerators(line string) []enumerator {
	var out []enumerator
	pos := 0
	for pos < len(line) {
		anchored := pos == 0 || followsListSeparator(line, pos)
		spaced := anchored || followsSpace(line, pos)
		if spaced {
			if m := enumeratorRe.FindStringSubmatchIndex(line[pos:]); m != nil {
				tok := line[pos+m[2] : pos+m[3]]
				if anchored || (len(out) > 0 && continuesSequence(out[len(out)-1].token, tok)) {
					out = append(out, enumerator{start: pos, end: pos + m[1], token: tok})
					pos += m[1]
					continue
				}
			}
		}
		_, size := utf8.DecodeRuneInString(line[pos:])
		pos += size
	}
	return out
}

func followsListSeparator(line string, pos int) bool {
	ws, size := utf8.DecodeLastRuneInString(line[:pos])
	if !unicode.IsSpace(ws) {
		return false
	}
	sep, _ := utf8.DecodeLastRuneInString(line[:pos-size])
	return sep == ';' || sep == ':'
}

func followsSpace(line string, pos int) bool {
	r, _ := utf8.DecodeLastRuneInString(line[:pos])
	return unicode.IsSpace(r)
}

// continuesSequence reports whether next is the label directly after prev in
// the same style. Bare numerals are excluded because "within 2. days" style
// text is too common in contract prose.
func continuesSequence(prev, next string) bool {
	pCore, pStyle := splitToken(prev)
	nCore, nStyle := splitToken(next)
	if pStyle != nStyle {
		return false
	}
	if isDigits(pCore) {
		if pStyle != "()" {
			return false
		}
		a, errA := strconv.Atoi(pCore)
		b, errB := strconv.Atoi(nCore)
		return errA == nil && errB == nil && b == a+1
	}
	for _, cand := range successors(pCore) {
		if cand == nCore {
			return true
		}
	}
	return false
}

// splitToken separates "(a)", "a.", "a)" into the label core and its style.
func splitToken(tok string) (core, style string) {
	if strings.HasPrefix(tok, "(") && strings.HasSuffix(tok, ")") {
		return tok[1 : len(tok)-1], "()"
	}
	return tok[:len(tok)-1], tok[len(tok)-1:]
}

// successors lists the labels that may follow core: the next letter and, for
// roman numerals, the next numeral in the same case.
func successors(core string) []string {
	var out []string
	if len(core) == 1 {
		c := core[0]
		if (c >= 'a' && c < 'z') || (c >= 'A' && c < 'Z') {
			out = append(out, string(c+1))
		}
	}
	if n, upper, ok := parseRoman(core); ok {
		next := formatRoman(n + 1)
		if !upper {
			next = strings.ToLower(next)
		}
		out = append(out, next)
	}
	return out
}

var romanValues = map[byte]int{'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100}

// parseRoman reads a roman numeral written entirely in one case.
func parseRoman(s string) (n int, upper bool, ok bool) {
	if s == "" {
		return 0, false, false
	}
	switch s {
	case strings.ToUpper(s):
		upper = true
	case strings.ToLower(s):
	default:
		return 0, false, false
	}
	u := strings.ToUpper(s)
	for i := 0; i < len(u); i++ {
		v, known := romanValues[u[i]]
		if !known {
			return 0, false, false
		}
		if i+1 < len(u) && v < romanValues[u[i+1]] {
			n -= v
		} else {
			n += v
		}
	}
	if n <= 0 || formatRoman(n) != u {
		return 0, false, false
	}
	return n, upper, true
}

func formatRoman(n int) string {
	steps := []struct {
		v int
		s string
	}{
		{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
		{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
	}
	var b strings.Builder
	for _, st := range steps {
		for n >= st.v {
			b.WriteString(st.s)
			n -= st.v
		}
	}
	return b.String()
}
