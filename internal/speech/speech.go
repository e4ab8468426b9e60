// Package speech defines the capture adapter the wizard uses for voice
// input. The actual recognition engine is a host-platform capability;
// builds without one get an unsupported recognizer and the UI hides its
// voice affordances.
package speech

import (
	"errors"
	"strings"
	"sync"
)

// ErrUnsupported is returned by Start when no recognition engine is
// available on this platform.
var ErrUnsupported = errors.New("speech recognition is not supported on this platform")

// Recognizer is a cancellable listening session. The transcript
// accumulates while listening and resets on each Start. Stop is
// idempotent.
type Recognizer interface {
	Start() error
	Stop()
	Listening() bool
	Transcript() string
	Supported() bool
}

// Unsupported is the degraded recognizer used when the platform has no
// speech capability. Start fails; everything else is inert.
type Unsupported struct{}

func (Unsupported) Start() error       { return ErrUnsupported }
func (Unsupported) Stop()              {}
func (Unsupported) Listening() bool    { return false }
func (Unsupported) Transcript() string { return "" }
func (Unsupported) Supported() bool    { return false }

// Capture is a recognizer fed by an external recognition engine through
// Append. It implements the session semantics (reset on start, cumulative
// transcript, idempotent stop) so engine adapters only have to deliver
// text.
type Capture struct {
	mu         sync.Mutex
	listening  bool
	transcript strings.Builder
}

// NewCapture returns an idle capture session.
func NewCapture() *Capture {
	return &Capture{}
}

func (c *Capture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listening {
		return nil
	}
	c.transcript.Reset()
	c.listening = true
	return nil
}

func (c *Capture) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listening = false
}

func (c *Capture) Listening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listening
}

func (c *Capture) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.String()
}

func (c *Capture) Supported() bool { return true }

// Append adds recognized text to the transcript. Text arriving while
// the session is stopped is dropped.
func (c *Capture) Append(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.listening || text == "" {
		return
	}
	c.transcript.WriteString(text)
	c.transcript.WriteString(" ")
}
