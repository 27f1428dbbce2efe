package lexer

import "github.com/shiftlefter/shiftlefter/gherkin/ast"

// Kind identifies the tagged variant a Token carries.
type Kind int

const (
	KindFeatureLine Kind = iota
	KindRuleLine
	KindBackgroundLine
	KindScenarioLine
	KindScenarioOutlineLine
	KindExamplesLine
	KindStepLine
	KindTagLine
	KindTableRow
	KindDocStringDelim
	KindComment
	KindEmpty
	KindOther
	KindEOF
)

func (k Kind) String() string {
	switch k {
	case KindFeatureLine:
		return "feature-line"
	case KindRuleLine:
		return "rule-line"
	case KindBackgroundLine:
		return "background-line"
	case KindScenarioLine:
		return "scenario-line"
	case KindScenarioOutlineLine:
		return "scenario-outline-line"
	case KindExamplesLine:
		return "examples-line"
	case KindStepLine:
		return "step-line"
	case KindTagLine:
		return "tag-line"
	case KindTableRow:
		return "table-row"
	case KindDocStringDelim:
		return "doc-string-delim"
	case KindComment:
		return "comment"
	case KindEmpty:
		return "empty"
	case KindOther:
		return "other"
	case KindEOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Token is one lexed line. Only the fields relevant to its Kind are
// populated; the rest are zero values.
type Token struct {
	Kind     Kind
	Location ast.Location
	Indent   int

	KeywordText string // *Line tokens: the literal keyword as written ("Feature", "Scenario Outline", ...)
	Name        string // *Line tokens: text after the colon

	StepKeyword string          // StepLine: literal keyword text ("Given", "And", "*", ...)
	StepKind    ast.KeywordKind // StepLine: resolved kind when unambiguous (Given/When/Then); Unknown for And/But/*
	Text        string          // StepLine: step text after the keyword

	Tags []string // TagLine

	Cells []string // TableRow

	Delimiter     string // DocStringDelim: "```" or `"""`
	ContentType   string // DocStringDelim: optional content-type suffix
	Unterminated bool   // DocStringDelim: true if EOF was reached before the closing delimiter

	Raw string // Comment: text after "#", trimmed (a line-1 language directive keeps its "#"); Other: trimmed line text, or a docstring content line verbatim
}
