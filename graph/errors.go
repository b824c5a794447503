package graph

// GraphError represents an error from graph configuration or I/O paths.
//
// The mutation protocol itself never returns errors: rejected connections,
// duplicate links, and missing templates are representable states handled
// with sentinel results (ConnectResult, nil nodes). GraphError is reserved
// for the fallible edges of the system (adapter-table loading, document
// decoding) where an error is genuinely an error.
type GraphError struct {
	// Message is the human-readable error description.
	Message string

	// Code is a machine-readable error code for programmatic handling.
	Code string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}
