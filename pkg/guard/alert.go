package guard

// Alerter receives the blocking alert raised when validation fails. One call
// per failed submit attempt.
type Alerter interface {
	Alert(message string)
}

// AlerterFunc adapts a function to the Alerter interface.
type AlerterFunc func(message string)

// Alert implements Alerter.
func (fn AlerterFunc) Alert(message string) {
	fn(message)
}

// NopAlerter returns an Alerter that discards every message.
func NopAlerter() Alerter {
	return AlerterFunc(func(string) {})
}

// Recorder is an Alerter that keeps every message it receives, for tests and
// for hosts that surface alerts out of band.
type Recorder struct {
	Messages []string
}

// Alert implements Alerter.
func (r *Recorder) Alert(message string) {
	r.Messages = append(r.Messages, message)
}

// Reset discards recorded messages.
func (r *Recorder) Reset() {
	r.Messages = nil
}
