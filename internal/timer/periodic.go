package timer

// PeriodicCallback invokes its callback every interval while it is running.
type PeriodicCallback struct {
	clock    Clock
	callback Callable

	intervalMillis uint32
	lastMillis     uint32
	active         bool
}

func NewPeriodicCallback(clock Clock, intervalMillis uint32, callback Callable) *PeriodicCallback {
	return &PeriodicCallback{
		clock:          clock,
		callback:       callback,
		intervalMillis: intervalMillis,
	}
}

func (p *PeriodicCallback) Start() {
	p.lastMillis = p.clock.Millis()
	p.active = true
}

func (p *PeriodicCallback) Stop() {
	p.active = false
}

func (p *PeriodicCallback) IsActive() bool {
	return p.active
}

func (p *PeriodicCallback) Update() {
	if !p.active {
		return
	}
	now := p.clock.Millis()
	if now-p.lastMillis >= p.intervalMillis {
		p.lastMillis = now
		p.callback.Invoke()
	}
}
