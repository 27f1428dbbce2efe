package gobddtest

import (
	"github.com/shiftlefter/shiftlefter/gherkin/pickle"
	"github.com/shiftlefter/shiftlefter/tagexpr"
)

// filterByTagExpr keeps only the pickles whose effective tag set
// satisfies expr. An empty/unparsable expr is treated as "run everything"
// since tag filtering is opt-in.
func filterByTagExpr(pickles []pickle.Pickle, expr string) []pickle.Pickle {
	e, err := tagexpr.Parse(expr)
	if err != nil {
		return pickles
	}
	out := make([]pickle.Pickle, 0, len(pickles))
	for _, p := range pickles {
		if tagexpr.Match(e, p.Tags) {
			out = append(out, p)
		}
	}
	return out
}
