package regalloc

// InternalError reports an allocator invariant violation: the upper
// bounds computed in planBindPoint should make failure unreachable, so
// seeing one means that accounting is wrong, not that the input .si file
// is invalid.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "internal register allocation error: " + e.Message
}
