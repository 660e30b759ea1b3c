package processor

// Phase is the position of a call within the speak/listen/forward cycle.
type Phase string

const (
	PhaseGreeting         Phase = "Greeting"
	PhaseAwaitingSpeech   Phase = "AwaitingSpeech"
	PhaseAwaitingBotReply Phase = "AwaitingBotReply"
	PhaseSpeaking         Phase = "Speaking"
	PhaseCompleted        Phase = "Completed"
)

// CallSession is the per-call state owned exclusively by the relay processor.
// PendingResponseText always holds something speakable so a failed capture
// never leaves the caller in silence.
type CallSession struct {
	CallUUID            string
	Phase               Phase
	PendingResponseText string
	FirstTransferDone   bool
}

// SpeechOutcome is one speech-recognition result: a transcript, or the
// reason there is none.
type SpeechOutcome struct {
	Transcript    string
	TimeoutReason string
	Error         string
}

// HasTranscript reports whether the caller actually said something
func (o SpeechOutcome) HasTranscript() bool {
	return o.Transcript != ""
}

// session returns the live session for callUUID, or nil. Callers must hold p.mu.
func (p *RelayProcessor) session(callUUID string) *CallSession {
	return p.sessions[callUUID]
}

// ActiveCalls reports the number of live call sessions
func (p *RelayProcessor) ActiveCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}

// SessionSnapshot returns a copy of the session for callUUID, if present.
func (p *RelayProcessor) SessionSnapshot(callUUID string) (CallSession, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.sessions[callUUID]
	if s == nil {
		return CallSession{}, false
	}
	return *s, true
}
