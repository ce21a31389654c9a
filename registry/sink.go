package registry

// HandlerSink receives the summaries matched by a search. Sinks belong to
// the caller; a store only appends to them.
type HandlerSink interface {
	AppendHandler(s Summary) error
}

// StringSink receives string values.
type StringSink interface {
	// Append adds value as is.
	Append(value string) error
	// AppendUnique adds value unless an equal value was added before.
	AppendUnique(value string, caseSensitive bool) error
}
