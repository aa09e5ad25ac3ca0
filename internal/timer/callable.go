package timer

// Callable is anything that can be invoked without arguments,
// e.g. the action of a timer, a periodic callback or a button press.
type Callable interface {
	Invoke()
}

// CallableFunc adapts an ordinary function to a Callable.
type CallableFunc func()

func (f CallableFunc) Invoke() {
	f()
}

// Clock provides the wrapping millisecond counter of the device.
type Clock interface {
	Millis() uint32
}
