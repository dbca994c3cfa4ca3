package codec

// Mode tells context-taking members which direction the row engine is working in.
type Mode int

const (
	ModeRead  Mode = iota // text is being parsed into records
	ModeWrite             // records are being formatted into text
)

// Context is the row-context token handed to members and funcs that ask for it.
type Context struct {
	Mode Mode
	// Row is the zero based index of the row being processed.
	Row int
	// Column is the zero based column index, or -1 when the call is not column specific
	// (instance providers and resets, for instance).
	Column int
	// ColumnName is the header name of Column when the row has headers.
	ColumnName string
	// State is whatever the caller attached to the read or write operation.
	State any
}
