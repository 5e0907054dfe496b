package asy

// Policy is the presentation policy for one export run. It is a plain
// value: build it once, pass it in, never mutate it during a run.
type Policy struct {
	// Accuracy is the number of decimals; zero or negative selects the
	// general format.
	Accuracy int
	// CommentsIndent is the column width statements are padded to before
	// their trailing comment.
	CommentsIndent int

	ConstructionPenName  string
	ConstructionPenColor string

	// SkipConstruction drops construction geometry entirely. It wins over
	// CommentConstruction.
	SkipConstruction bool
	// CommentConstruction emits construction geometry commented out.
	CommentConstruction bool
	// PrintDotLabels adds a (commented-out) block labelling every pair.
	PrintDotLabels bool

	Version     string
	UnitSize    string
	TexPreamble string
}

// Default presentation settings.
const (
	DefaultVersion              = "2022-12-16"
	DefaultConstructionPenName  = "construction"
	DefaultConstructionPenColor = "invisible"
	DefaultAccuracy             = 2
	DefaultCommentsIndent       = 40
	DefaultUnitSize             = "1pt"
)

// DefaultPolicy returns the stock policy.
func DefaultPolicy() Policy {
	return Policy{
		Accuracy:             DefaultAccuracy,
		CommentsIndent:       DefaultCommentsIndent,
		ConstructionPenName:  DefaultConstructionPenName,
		ConstructionPenColor: DefaultConstructionPenColor,
		Version:              DefaultVersion,
		UnitSize:             DefaultUnitSize,
	}
}
