package timer

// Timer invokes its callback once, after a delay. Update must be called
// frequently, the callback is invoked from within Update.
type Timer struct {
	clock    Clock
	callback Callable

	startMillis    uint32
	durationMillis uint32
	active         bool
}

func NewTimer(clock Clock, callback Callable) *Timer {
	return &Timer{
		clock:    clock,
		callback: callback,
	}
}

// Start (re)arms the timer. A running timer is restarted.
func (t *Timer) Start(durationMillis uint32) {
	t.startMillis = t.clock.Millis()
	t.durationMillis = durationMillis
	t.active = true
}

func (t *Timer) Cancel() {
	t.active = false
}

func (t *Timer) IsActive() bool {
	return t.active
}

func (t *Timer) Update() {
	if !t.active {
		return
	}
	if t.clock.Millis()-t.startMillis >= t.durationMillis {
		// deactivate first, the callback may restart the timer
		t.active = false
		t.callback.Invoke()
	}
}
