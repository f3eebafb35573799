package models

// RawTable holds uninterpreted rows exactly as a source delivered them.
// Nothing is parsed or filtered at this stage.
type RawTable struct {
	Header []string
	Rows   []RawRow
}

// RawRow is one data row with its 1-based line number in the source
// (the header is line 1).
type RawRow struct {
	Line   int
	Fields []string
}
