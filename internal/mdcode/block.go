package mdcode

// Block is a fenced code block reported by [Scan]. Lines are 1-based and
// point at the opening and closing fence lines.
type Block struct {
	Lang      string
	Meta      Meta
	Code      []byte
	StartLine int
	EndLine   int
}

type Blocks []*Block

// Section is the body of the code block enclosing a cursor, as found by
// [Locator.Locate]. Lines are 0-based indexes into the located document.
type Section struct {
	Lang string
	Meta Meta
	Code string

	OpenLine  int
	CloseLine int

	// InsertAfterLine is the line on which output belongs: the one right
	// after the closing fence.
	InsertAfterLine int
}
