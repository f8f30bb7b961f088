package instrument

// Reserved identifiers introduced by the rewriter. A '$' can never appear in a
// Starlark identifier, so no user program can read, bind or shadow them.
const (
	// RecorderName is the predeclared name holding the recorder handle.
	RecorderName = "$recorder"
	// ResultName is the temporary that carries a function's return value.
	ResultName = "$result"
)

// Methods exposed by the recorder handle and called by injected code.
const (
	MethodAssign      = "assign"
	MethodRecordCall  = "record_call"
	MethodStartBlock  = "start_block"
	MethodReturnValue = "return_value"
	MethodRepr        = "repr"
)

// DefaultExcludedFunctions lists the functions left uninstrumented unless
// configured otherwise. Tracing inside __repr__ would record events every
// time the recorder itself asks for a value's textual form.
var DefaultExcludedFunctions = []string{"__repr__"}

// DefaultReceiver is the name of the implicit leading receiver parameter
// that is never traced on function entry.
const DefaultReceiver = "self"
