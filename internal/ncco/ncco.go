package ncco

// NCCO is an ordered list of call-control actions returned to the voice
// platform from an answer webhook, or sent inline on a call transfer.
type NCCO []Action

// Action is one call-control directive. All actions carry an "action"
// discriminator field set by their constructor.
type Action interface {
	actionName() string
}

// TalkAction speaks text to the caller using the platform's TTS engine.
type TalkAction struct {
	Name     string `json:"action"`
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
	Style    int    `json:"style,omitempty"`
	BargeIn  bool   `json:"bargeIn,omitempty"`
}

func (a TalkAction) actionName() string { return a.Name }

// SpeechSettings configures speech capture on an input action.
type SpeechSettings struct {
	UUID         []string `json:"uuid,omitempty"`
	EndOnSilence float64  `json:"endOnSilence,omitempty"`
	Language     string   `json:"language,omitempty"`
	StartTimeout int      `json:"startTimeout,omitempty"`
}

// InputAction arms speech capture; the recognition result is delivered to
// EventURL as an ASR webhook.
type InputAction struct {
	Name        string          `json:"action"`
	Type        []string        `json:"type"`
	EventURL    []string        `json:"eventUrl,omitempty"`
	EventMethod string          `json:"eventMethod,omitempty"`
	Speech      *SpeechSettings `json:"speech,omitempty"`
}

func (a InputAction) actionName() string { return a.Name }

// ConversationAction bridges the call leg into a named conversation.
type ConversationAction struct {
	Name         string `json:"action"`
	Conversation string `json:"name"`
	StartOnEnter *bool  `json:"startOnEnter,omitempty"`
}

func (a ConversationAction) actionName() string { return a.Name }

// Talk builds a talk action without barge-in (initial greetings).
func Talk(text, language string, style int) TalkAction {
	return TalkAction{
		Name:     "talk",
		Text:     text,
		Language: language,
		Style:    style,
	}
}

// TalkBargeIn builds a talk action the caller may interrupt by speaking.
func TalkBargeIn(text, language string, style int) TalkAction {
	a := Talk(text, language, style)
	a.BargeIn = true
	return a
}

// SpeechInput builds an input action capturing speech on the given call,
// delivering the result to eventURL.
func SpeechInput(eventURL, callUUID string, speech SpeechSettings) InputAction {
	speech.UUID = []string{callUUID}
	return InputAction{
		Name:        "input",
		Type:        []string{"speech"},
		EventURL:    []string{eventURL},
		EventMethod: "POST",
		Speech:      &speech,
	}
}

// Conversation builds a conversation action for the named channel.
func Conversation(name string, startOnEnter bool) ConversationAction {
	a := ConversationAction{
		Name:         "conversation",
		Conversation: name,
	}
	if startOnEnter {
		a.StartOnEnter = &startOnEnter
	}
	return a
}
