// Package lexer tokenizes Gherkin source into a line-oriented token stream.
// The lexer never fails: unrecognized text becomes an Other token and
// classification continues at the next line.
package lexer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shiftlefter/shiftlefter/gherkin/ast"
	"github.com/shiftlefter/shiftlefter/gherkin/dialect"
)

var languageDirectiveRe = regexp.MustCompile(`^#\s*language\s*:\s*([a-zA-Z-]+)\s*$`)

// Result is the outcome of tokenizing one source file.
type Result struct {
	Tokens   []Token
	Language string // dialect code actually used, e.g. "en"
}

// Lexer turns Gherkin source text into a Token stream.
type Lexer struct {
	file string
}

// New returns a Lexer that stamps Locations with the given filename.
func New(file string) *Lexer {
	return &Lexer{file: file}
}

// Tokenize scans the full source in one pass.
func (lx *Lexer) Tokenize(src string) Result {
	lines := splitLines(src)

	langCode := dialect.Default
	if len(lines) > 0 {
		if m := languageDirectiveRe.FindStringSubmatch(strings.TrimRight(lines[0], "\r\n")); m != nil {
			if _, ok := dialect.Lookup(m[1]); ok {
				langCode = m[1]
			} else {
				langCode = m[1] // keep requested code even if unknown; Lookup falls back to en for classification
			}
		}
	}
	dia, _ := dialect.Lookup(langCode)
	kws := sortedKeywords(dia)

	var toks []Token
	var docOpen bool
	var docDelim string
	var docIndent int
	var docLines []string
	var docStart ast.Location
	var docContentType string

	flushDoc := func(unterminated bool) {
		toks = append(toks, Token{
			Kind:         KindDocStringDelim,
			Location:     docStart,
			Delimiter:    docDelim,
			ContentType:  docContentType,
			Indent:       docIndent,
			Unterminated: unterminated,
		})
		for _, l := range docLines {
			toks = append(toks, Token{Kind: KindOther, Raw: l, Location: docStart})
		}
	}

	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimRight(raw, "\r\n")
		indent := countIndent(line)
		trimmed := strings.TrimSpace(line)
		loc := ast.Location{File: lx.file, Line: lineNo, Column: indent + 1}

		if docOpen {
			if trimmed == docDelim && indent == docIndent {
				docOpen = false
				flushDoc(false)
				docLines = nil
				continue
			}
			docLines = append(docLines, unescapeDocLine(line))
			continue
		}

		switch {
		case trimmed == "":
			toks = append(toks, Token{Kind: KindEmpty, Location: loc})

		case strings.HasPrefix(trimmed, "#"):
			if lineNo == 1 && languageDirectiveRe.MatchString(trimmed) {
				toks = append(toks, Token{Kind: KindComment, Location: loc, Raw: trimmed})
				continue
			}
			toks = append(toks, Token{Kind: KindComment, Location: loc, Raw: strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))})

		case strings.HasPrefix(trimmed, "@"):
			toks = append(toks, Token{Kind: KindTagLine, Location: loc, Tags: splitTags(trimmed)})

		case strings.HasPrefix(trimmed, "|"):
			toks = append(toks, Token{Kind: KindTableRow, Location: loc, Cells: splitTableRow(trimmed)})

		case strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "```"):
			delim := trimmed[:3]
			docOpen = true
			docDelim = delim
			docIndent = indent
			docStart = loc
			docContentType = strings.TrimSpace(trimmed[3:])
			docLines = nil

		default:
			if kw, name, isHeader := matchHeaderKeyword(trimmed, dia); isHeader {
				toks = append(toks, headerToken(kw, name, loc, dia))
				continue
			}
			if kw, text, kind, ok := matchStepKeyword(trimmed, kws, dia); ok {
				toks = append(toks, Token{Kind: KindStepLine, Location: loc, StepKeyword: kw, StepKind: kind, Text: text})
				continue
			}
			toks = append(toks, Token{Kind: KindOther, Location: loc, Raw: trimmed})
		}
	}

	if docOpen {
		// Unterminated docstring: flush what we have; the parser reports it.
		flushDoc(true)
	}

	toks = append(toks, Token{Kind: KindEOF, Location: ast.Location{File: lx.file, Line: len(lines) + 1, Column: 1}})

	return Result{Tokens: toks, Language: langCode}
}

func splitLines(src string) []string {
	if src == "" {
		return nil
	}
	return strings.Split(src, "\n")
}

func countIndent(line string) int {
	n := 0
	for _, r := range line {
		if r == ' ' || r == '\t' {
			n++
			continue
		}
		break
	}
	return n
}

func splitTags(line string) []string {
	fields := strings.Fields(line)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if strings.HasPrefix(f, "@") {
			out = append(out, f)
		}
	}
	return out
}

func splitTableRow(line string) []string {
	trimmed := strings.Trim(line, " \t")
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")

	var cells []string
	var cur strings.Builder
	runes := []rune(trimmed)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) {
			switch runes[i+1] {
			case '|':
				cur.WriteRune('|')
				i++
				continue
			case 'n':
				cur.WriteRune('\n')
				i++
				continue
			case '\\':
				cur.WriteRune('\\')
				i++
				continue
			}
		}
		if r == '|' {
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}

func unescapeDocLine(line string) string {
	return line
}

// matchHeaderKeyword checks every header keyword family in the dialect
// and returns the longest match so "Scenario Outline:" is preferred over
// "Scenario:" when both are prefixes.
func matchHeaderKeyword(trimmed string, dia dialect.Dialect) (kw string, name string, ok bool) {
	families := [][]string{
		dia.Feature, dia.Rule, dia.Background, dia.ScenarioOutline, dia.Scenario, dia.Examples,
	}

	best := ""
	for _, words := range families {
		for _, w := range words {
			prefix := w + ":"
			if strings.HasPrefix(trimmed, prefix) && len(prefix) > len(best) {
				best = prefix
			}
		}
	}
	if best == "" {
		return "", "", false
	}
	kw = strings.TrimSuffix(best, ":")
	name = strings.TrimSpace(trimmed[len(best):])
	return kw, name, true
}

func headerToken(kw, name string, loc ast.Location, dia dialect.Dialect) Token {
	switch {
	case containsWord(dia.Feature, kw):
		return Token{Kind: KindFeatureLine, Location: loc, KeywordText: kw, Name: name}
	case containsWord(dia.Rule, kw):
		return Token{Kind: KindRuleLine, Location: loc, KeywordText: kw, Name: name}
	case containsWord(dia.Background, kw):
		return Token{Kind: KindBackgroundLine, Location: loc, KeywordText: kw, Name: name}
	case containsWord(dia.ScenarioOutline, kw):
		return Token{Kind: KindScenarioOutlineLine, Location: loc, KeywordText: kw, Name: name}
	case containsWord(dia.Scenario, kw):
		return Token{Kind: KindScenarioLine, Location: loc, KeywordText: kw, Name: name}
	case containsWord(dia.Examples, kw):
		return Token{Kind: KindExamplesLine, Location: loc, KeywordText: kw, Name: name}
	default:
		return Token{Kind: KindOther, Location: loc, Raw: name}
	}
}

func containsWord(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}

type keywordEntry struct {
	word string
	kind ast.KeywordKind
	star bool
}

func sortedKeywords(dia dialect.Dialect) []keywordEntry {
	var entries []keywordEntry
	for _, w := range dia.Given {
		entries = append(entries, keywordEntry{w, ast.KeywordGiven, false})
	}
	for _, w := range dia.When {
		entries = append(entries, keywordEntry{w, ast.KeywordWhen, false})
	}
	for _, w := range dia.Then {
		entries = append(entries, keywordEntry{w, ast.KeywordThen, false})
	}
	for _, w := range dia.And {
		entries = append(entries, keywordEntry{w, ast.KeywordUnknown, false})
	}
	for _, w := range dia.But {
		entries = append(entries, keywordEntry{w, ast.KeywordUnknown, false})
	}
	for _, w := range dia.Star {
		entries = append(entries, keywordEntry{w, ast.KeywordUnknown, true})
	}
	sort.Slice(entries, func(i, j int) bool { return len(entries[i].word) > len(entries[j].word) })
	return entries
}

func matchStepKeyword(trimmed string, kws []keywordEntry, dia dialect.Dialect) (kw, text string, kind ast.KeywordKind, ok bool) {
	for _, e := range kws {
		if e.star {
			if strings.HasPrefix(trimmed, "* ") || trimmed == "*" {
				return "*", strings.TrimSpace(strings.TrimPrefix(trimmed, "*")), ast.KeywordUnknown, true
			}
			continue
		}
		prefix := e.word
		if !strings.HasSuffix(prefix, " ") {
			prefix += " "
		}
		if strings.HasPrefix(trimmed, prefix) {
			return strings.TrimSpace(e.word), strings.TrimSpace(trimmed[len(prefix):]), e.kind, true
		}
	}
	return "", "", ast.KeywordUnknown, false
}
