package ast

// KeywordKind classifies a step keyword into its semantic role. And/But/*
// steps inherit the kind of the nearest preceding concrete step within the
// same Scenario/Background.
type KeywordKind int

const (
	KeywordUnknown KeywordKind = iota
	KeywordGiven
	KeywordWhen
	KeywordThen
)

func (k KeywordKind) String() string {
	switch k {
	case KeywordGiven:
		return "Given"
	case KeywordWhen:
		return "When"
	case KeywordThen:
		return "Then"
	default:
		return "Unknown"
	}
}

// ScenarioKind distinguishes a plain Scenario from a Scenario Outline.
type ScenarioKind int

const (
	ScenarioPlain ScenarioKind = iota
	ScenarioOutlineKind
)

// Tag is a single `@name` annotation.
type Tag struct {
	Name     string
	Location Location
}

// Row is one line of a DataTable or an Examples table.
type Row struct {
	Cells    []string
	Location Location
}

// DataTable is a tabular step argument.
type DataTable struct {
	Rows     []Row
	Location Location
}

// DocString is a multi-line step argument delimited by `"""` or ```` ``` ````.
type DocString struct {
	Delimiter   string
	ContentType string
	Lines       []string
	Location    Location
}

// StepArgument is the optional trailing argument of a Step: at most one of
// DocString or DataTable is set.
type StepArgument struct {
	DocString *DocString
	DataTable *DataTable
}

// Step is a single Given/When/Then/And/But/* line.
type Step struct {
	Keyword         string // the literal keyword text as written, e.g. "And"
	KeywordKind     KeywordKind
	Text            string
	Argument        *StepArgument
	Location        Location
	LeadingComments []Comment // comment lines immediately preceding this step
}

// Background groups setup steps shared by every Scenario in the enclosing
// Feature or Rule.
type Background struct {
	Name            string
	Description     string
	Steps           []Step
	Location        Location
	LeadingComments []Comment
}

// Examples is one Examples/Scenarios block attached to a Scenario Outline.
type Examples struct {
	Tags            []Tag
	Name            string
	Description     string
	Header          *Row
	Rows            []Row
	Location        Location
	LeadingComments []Comment
}

// Scenario is a single executable example, or (when Kind is
// ScenarioOutlineKind) a template expanded once per Examples row.
type Scenario struct {
	Tags            []Tag
	Kind            ScenarioKind
	Name            string
	Description     string
	Steps           []Step
	Examples        []Examples // only populated when Kind == ScenarioOutlineKind
	Location        Location
	LeadingComments []Comment
}

// IsOutline reports whether this Scenario is a Scenario Outline.
func (s *Scenario) IsOutline() bool {
	return s.Kind == ScenarioOutlineKind
}

// Rule groups a Background and one or more Scenarios under a business rule.
type Rule struct {
	Tags             []Tag
	Name             string
	Description      string
	Background       *Background
	Scenarios        []*Scenario
	Location         Location
	LeadingComments  []Comment
	TrailingComments []Comment // dangling comments after the last Scenario, only when the Rule runs to EOF
}

// Child is a top-level member of a Feature: exactly one field is set.
type Child struct {
	Background *Background
	Rule       *Rule
	Scenario   *Scenario
}

// Feature is the root of the parse tree for one .feature file.
type Feature struct {
	Language    string
	Tags        []Tag
	Name        string
	Description string
	Children    []Child
	Location    Location
	URI         string

	// LeadingComments are comment lines that appear before the `Feature:`
	// line itself (e.g. a file-level license header).
	LeadingComments []Comment
	// TrailingComments are comment lines that appear after the last child
	// with no following node to attach to (end-of-file comments).
	TrailingComments []Comment
}

// Comment is a `#`-prefixed line, kept for the formatter/roundtrip but not
// otherwise part of the executable tree.
type Comment struct {
	Text     string
	Location Location
}

// Document is the full parse result: the Feature (if any) plus comments
// collected along the way.
type Document struct {
	Feature  *Feature
	Comments []Comment
}
