package reader

// Record is one delimited row and its 1-based line number in the source.
type Record struct {
	Line   int
	Fields []string
}
