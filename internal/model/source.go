// Package model defines the data structures shared by the tracer, the
// workflow and the user interfaces.
package model

// Path represents a file system path.
type Path string

// PseudoFilename is the identity given to sources that do not come from a file.
const PseudoFilename = "<live coding source>"

// Source is one unit of code to trace.
type Source struct {
	// Origin is the file the text was read from, empty for inline requests.
	Origin Path `msgpack:"origin"`
	// Name attributes diagnostics and call-stack frames to this source.
	Name string `msgpack:"name"`
	Text []byte `msgpack:"text"`
}

// NewSource builds an inline Source carrying the default pseudo filename.
func NewSource(text string) Source {
	return Source{Name: PseudoFilename, Text: []byte(text)}
}

// Filename returns the pseudo-identity used while compiling the source.
func (s Source) Filename() string {
	if s.Name != "" {
		return s.Name
	}

	if s.Origin != "" {
		return string(s.Origin)
	}

	return PseudoFilename
}
