package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	clientbot "voicebot-relay/internal/clients/bot"
	"voicebot-relay/internal/clients/vonage"
	"voicebot-relay/internal/config"
	"voicebot-relay/internal/ncco"
	"voicebot-relay/internal/observability"
	"voicebot-relay/internal/relay/monitor"
	"voicebot-relay/internal/relay/processor"

	"github.com/gin-gonic/gin"
)

// fakeVoice records call-control operations on buffered channels
type fakeVoice struct {
	transfers chan ncco.NCCO
	plays     chan vonage.TTSRequest
	stops     chan string
}

func newFakeVoice() *fakeVoice {
	return &fakeVoice{
		transfers: make(chan ncco.NCCO, 4),
		plays:     make(chan vonage.TTSRequest, 4),
		stops:     make(chan string, 4),
	}
}

func (f *fakeVoice) TransferNCCO(_ context.Context, _ string, actions ncco.NCCO) error {
	f.transfers <- actions
	return nil
}

func (f *fakeVoice) PlayTTS(_ context.Context, _ string, req vonage.TTSRequest) error {
	f.plays <- req
	return nil
}

func (f *fakeVoice) StopTTS(_ context.Context, legID string) error {
	f.stops <- legID
	return nil
}

// fakeForwarder records forwarded turns on a buffered channel
type fakeForwarder struct {
	forwards chan clientbot.ForwardRequest
}

func newFakeForwarder() *fakeForwarder {
	return &fakeForwarder{forwards: make(chan clientbot.ForwardRequest, 4)}
}

func (f *fakeForwarder) Forward(_ context.Context, req clientbot.ForwardRequest) error {
	f.forwards <- req
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *processor.RelayProcessor, *fakeVoice, *fakeForwarder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := observability.NewLogger()
	cfg := &config.Config{}
	cfg.Server.Hostname = "relay.example.com"
	cfg.Voice = config.VoiceConfig{
		LanguageCode:       "en-US",
		Language:           "en",
		TTSStyle:           11,
		GreetingText:       "Hello",
		WakeUpBotText:      "Hello",
		DefaultBotGreeting: "How may I help you?",
		Flow:               config.CallFlowDirect,
	}
	cfg.ASR = config.ASRConfig{EndOnSilence: 1.0, StartTimeout: 10}

	voice := newFakeVoice()
	forwarder := newFakeForwarder()
	p := processor.New(voice, forwarder, nil, processor.SettingsFromConfig(cfg), logger)

	h := New(p, nil, monitor.NewHub(logger), cfg, logger)

	router := gin.New()
	router.GET("/answer", h.HandleAnswer)
	router.POST("/event", h.HandleEvent)
	router.POST("/asr", h.HandleASR)
	router.POST("/rtc", h.HandleRTC)
	router.POST("/botreply", h.HandleBotReply)

	return router, p, voice, forwarder
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func answerCall(t *testing.T, router *gin.Engine, callUUID string) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/answer?uuid="+callUUID, nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("answer returned %d", w.Code)
	}
}

func decodeActions(t *testing.T, body *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var actions []map[string]interface{}
	if err := json.Unmarshal(body.Bytes(), &actions); err != nil {
		t.Fatalf("response is not an instruction list: %v", err)
	}
	return actions
}

func TestAnswerReturnsGreetingAndCapture(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/answer?uuid=c1", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	actions := decodeActions(t, w.Body)
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}
	if actions[0]["action"] != "talk" || actions[1]["action"] != "input" {
		t.Errorf("unexpected instruction list: %v", actions)
	}
}

func TestAnswerWithoutUUIDStillAcks(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/answer", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 even without uuid, got %d", w.Code)
	}
}

func TestASRTimeoutRespondsWithFallback(t *testing.T) {
	router, _, _, _ := newTestRouter(t)
	answerCall(t, router, "c1")

	w := postJSON(t, router, "/asr", map[string]interface{}{
		"uuid":   "c1",
		"speech": map[string]interface{}{"timeout_reason": "start_timeout"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	actions := decodeActions(t, w.Body)
	if len(actions) != 2 || actions[0]["action"] != "talk" {
		t.Fatalf("expected talk fallback, got %v", actions)
	}
	if actions[0]["text"] != "Hello" {
		t.Errorf("expected greeting replay, got %v", actions[0]["text"])
	}
}

func TestASRTranscriptForwardsWithoutSpeaking(t *testing.T) {
	router, _, _, forwarder := newTestRouter(t)
	answerCall(t, router, "c1")

	w := postJSON(t, router, "/asr", map[string]interface{}{
		"uuid": "c1",
		"speech": map[string]interface{}{
			"results": []map[string]string{{"text": "what's the weather", "confidence": "0.9"}},
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	for _, action := range decodeActions(t, w.Body) {
		if action["action"] == "talk" {
			t.Error("transcript must not produce a speak instruction")
		}
	}

	select {
	case forwarded := <-forwarder.forwards:
		if forwarded.TextRequest != "what's the weather" || forwarded.ID != "c1" {
			t.Errorf("unexpected forward %+v", forwarded)
		}
	case <-time.After(time.Second):
		t.Fatal("transcript was not forwarded to the bot")
	}
}

func TestASREmptyResultsHandledAsNoMatch(t *testing.T) {
	router, _, _, _ := newTestRouter(t)
	answerCall(t, router, "c1")

	w := postJSON(t, router, "/asr", map[string]interface{}{
		"uuid":   "c1",
		"speech": map[string]interface{}{"results": []map[string]string{}},
	})

	actions := decodeActions(t, w.Body)
	if len(actions) == 0 || actions[0]["action"] != "talk" {
		t.Errorf("expected spoken fallback for empty results, got %v", actions)
	}
}

func TestMalformedASRIsAcknowledged(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/asr", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("malformed webhook must still be acknowledged, got %d", w.Code)
	}
}

func TestBotReplySpeaksOnCall(t *testing.T) {
	router, _, voice, forwarder := newTestRouter(t)
	answerCall(t, router, "c1")

	postJSON(t, router, "/asr", map[string]interface{}{
		"uuid": "c1",
		"speech": map[string]interface{}{
			"results": []map[string]string{{"text": "hi"}},
		},
	})
	<-forwarder.forwards

	w := postJSON(t, router, "/botreply", map[string]string{
		"id":             "c1",
		"botTextReponse": "It's sunny",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	select {
	case played := <-voice.plays:
		if played.Text != "It's sunny" || !played.BargeIn {
			t.Errorf("unexpected TTS play %+v", played)
		}
	case <-time.After(time.Second):
		t.Fatal("bot reply was not spoken")
	}
}

func TestBotReplyForUnknownCallIsSwallowed(t *testing.T) {
	router, p, voice, _ := newTestRouter(t)

	w := postJSON(t, router, "/botreply", map[string]string{
		"id":             "ghost",
		"botTextReponse": "late reply",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if p.ActiveCalls() != 0 {
		t.Error("late reply must not create a session")
	}
	select {
	case <-voice.plays:
		t.Error("late reply must not be spoken")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRTCSpeakingOnTriggersInterrupt(t *testing.T) {
	router, _, voice, forwarder := newTestRouter(t)
	answerCall(t, router, "c1")

	// Drive the call into Speaking via a bot reply.
	postJSON(t, router, "/asr", map[string]interface{}{
		"uuid":   "c1",
		"speech": map[string]interface{}{"results": []map[string]string{{"text": "hi"}}},
	})
	<-forwarder.forwards
	postJSON(t, router, "/botreply", map[string]string{"id": "c1", "botTextReponse": "It's sunny"})
	<-voice.plays

	w := postJSON(t, router, "/rtc", map[string]interface{}{
		"type": "audio:speaking:on",
		"body": map[string]interface{}{"channel": map[string]string{"id": "c1"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	select {
	case legID := <-voice.stops:
		if legID != "c1" {
			t.Errorf("expected interrupt on c1, got %s", legID)
		}
	case <-time.After(time.Second):
		t.Fatal("barge-in did not stop playback")
	}
}

func TestRTCOtherEventsAreIgnored(t *testing.T) {
	router, _, voice, _ := newTestRouter(t)
	answerCall(t, router, "c1")

	postJSON(t, router, "/rtc", map[string]interface{}{
		"type": "audio:speaking:off",
		"body": map[string]interface{}{"channel": map[string]string{"id": "c1"}},
	})

	select {
	case <-voice.stops:
		t.Error("speaking:off must not interrupt playback")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventCompletedReleasesSession(t *testing.T) {
	router, p, _, _ := newTestRouter(t)
	answerCall(t, router, "c1")

	if p.ActiveCalls() != 1 {
		t.Fatalf("expected one active call, got %d", p.ActiveCalls())
	}

	w := postJSON(t, router, "/event", map[string]string{
		"uuid":   "c1",
		"status": "completed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if p.ActiveCalls() != 0 {
		t.Errorf("expected session released, got %d active", p.ActiveCalls())
	}
}
