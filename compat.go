package linkedit

// Wildcard is the type tag that matches any other type.
const Wildcard = "*"

// CanConnect reports whether an output port of outputType may feed an input
// port of inputType. This is the only rule deciding whether a gesture creates a link.
func CanConnect(outputType, inputType string) bool {
	return outputType == inputType || outputType == Wildcard || inputType == Wildcard
}
