package board

import (
	"runtime"
	"sync"
	"time"
)

// Pin is the state of one simulated pin.
type Pin struct {
	Mode   int
	Value  int // Digital level, 0 or 1.
	Analog int // Last analogWrite value, or the sample analogRead returns.
}

// Sim is a simulated board. Pin state is kept in memory, the clock is
// the wall clock by default. MillisFn and SleepFn may be replaced to
// make time deterministic in tests.
//
// Events, when non-nil, receives one Event per pin mode change, digital
// or analog write, delay and yield; reads and Millis emit nothing. Sends
// never block: when the consumer lags, events are dropped.
type Sim struct {
	mu   sync.Mutex
	pins []Pin

	start time.Time

	MillisFn func() uint32
	SleepFn  func(time.Duration)

	Events chan Event
}

// NewSim creates a simulated board with n pins.
func NewSim(n int) *Sim {
	return &Sim{
		pins:  make([]Pin, n),
		start: time.Now(),
	}
}

func (s *Sim) emit(et EventType, pin, value int) {
	if s.Events == nil {
		return
	}
	select {
	case s.Events <- NewEvent(et, pin, value, s.Millis()):
	default:
	}
}

// PinState returns a copy of the pin state, for viewers.
func (s *Sim) PinState() []Pin {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Pin, len(s.pins))
	copy(out, s.pins)
	return out
}

// SetAnalog sets the sample that AnalogRead returns for the given pin.
func (s *Sim) SetAnalog(pin, sample int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pin < 0 || pin >= len(s.pins) {
		return
	}
	s.pins[pin].Analog = sample
}

// SetDigital sets the level that DigitalRead returns for the given pin,
// simulating an external signal.
func (s *Sim) SetDigital(pin, val int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pin < 0 || pin >= len(s.pins) {
		return
	}
	s.pins[pin].Value = val
}

func (s *Sim) DigitalRead(pin int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pin < 0 || pin >= len(s.pins) {
		return 0
	}
	return s.pins[pin].Value
}

func (s *Sim) DigitalWrite(pin, val int) {
	s.mu.Lock()
	if pin >= 0 && pin < len(s.pins) {
		if val != 0 {
			val = 1
		}
		s.pins[pin].Value = val
	}
	s.mu.Unlock()
	s.emit(EvDigitalWrite, pin, val)
}

func (s *Sim) PinMode(pin, mode int) {
	s.mu.Lock()
	if pin >= 0 && pin < len(s.pins) {
		s.pins[pin].Mode = mode
	}
	s.mu.Unlock()
	s.emit(EvPinMode, pin, mode)
}

func (s *Sim) AnalogRead(pin int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pin < 0 || pin >= len(s.pins) {
		return 0
	}
	return s.pins[pin].Analog
}

func (s *Sim) AnalogWrite(pin, val int) {
	s.mu.Lock()
	if pin >= 0 && pin < len(s.pins) {
		s.pins[pin].Analog = val
	}
	s.mu.Unlock()
	s.emit(EvAnalogWrite, pin, val)
}

func (s *Sim) Delay(ms int) {
	s.emit(EvDelay, -1, ms)
	if ms <= 0 {
		return
	}
	if s.SleepFn != nil {
		s.SleepFn(time.Duration(ms) * time.Millisecond)
		return
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

func (s *Sim) Millis() uint32 {
	if s.MillisFn != nil {
		return s.MillisFn()
	}
	return uint32(time.Since(s.start) / time.Millisecond)
}

func (s *Sim) Yield() {
	s.emit(EvYield, -1, 0)
	runtime.Gosched()
}
