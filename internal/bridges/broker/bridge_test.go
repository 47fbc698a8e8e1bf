package broker

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/leoclee/wifilight/internal/infrastructure/config"
	"github.com/leoclee/wifilight/internal/infrastructure/logging"
	"github.com/leoclee/wifilight/internal/light"
)

// MockMQTTClient implements MQTTClient for testing.
type MockMQTTClient struct {
	mu            sync.Mutex
	published     []mockPublish
	subscriptions []mockSubscription
	connected     bool
	handlers      map[string]func(topic string, payload []byte)
	publishErr    error
	subscribeErr  error
}

type mockPublish struct {
	Topic    string
	Payload  []byte
	QoS      byte
	Retained bool
}

type mockSubscription struct {
	Topic string
	QoS   byte
}

func NewMockMQTTClient() *MockMQTTClient {
	return &MockMQTTClient{
		connected: true,
		handlers:  make(map[string]func(topic string, payload []byte)),
	}
}

func (m *MockMQTTClient) Publish(topic string, payload []byte, qos byte, retained bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, mockPublish{
		Topic:    topic,
		Payload:  payload,
		QoS:      qos,
		Retained: retained,
	})
	return m.publishErr
}

func (m *MockMQTTClient) Subscribe(topic string, qos byte, handler func(topic string, payload []byte)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subscribeErr != nil {
		return m.subscribeErr
	}
	m.subscriptions = append(m.subscriptions, mockSubscription{Topic: topic, QoS: qos})
	m.handlers[topic] = handler
	return nil
}

func (m *MockMQTTClient) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *MockMQTTClient) GetPublished() []mockPublish {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.published
}

func (m *MockMQTTClient) GetSubscriptions() []mockSubscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subscriptions
}

func (m *MockMQTTClient) SetPublishError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishErr = err
}

func (m *MockMQTTClient) SetSubscribeError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribeErr = err
}

// SimulateMessage simulates receiving an MQTT message on a topic.
func (m *MockMQTTClient) SimulateMessage(topic string, payload []byte) {
	m.mu.Lock()
	handler, ok := m.handlers[topic]
	m.mu.Unlock()
	if ok {
		handler(topic, payload)
	}
}

// MockSink implements CommandSink for testing.
type MockSink struct {
	mu      sync.Mutex
	applied []light.Update
}

func (m *MockSink) Apply(u light.Update) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied = append(m.applied, u)
}

func (m *MockSink) GetApplied() []light.Update {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applied
}

const (
	testCommandTopic = "wifilight/test0001/command"
	testStateTopic   = "wifilight/test0001/state"
)

func testMQTTConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		QoS:     1,
		Topics: config.MQTTTopicsConfig{
			State:        testStateTopic,
			Command:      testCommandTopic,
			Availability: "wifilight/test0001/availability",
		},
	}
}

func createTestBridge(t *testing.T, mqtt MQTTClient, sink CommandSink) *Bridge {
	t.Helper()
	b, err := NewBridge(Options{
		Config:     testMQTTConfig(),
		MQTTClient: mqtt,
		Sink:       sink,
		Logger:     logging.Default(),
	})
	if err != nil {
		t.Fatalf("NewBridge() error: %v", err)
	}
	return b
}

func TestNewBridge(t *testing.T) {
	b, err := NewBridge(Options{
		Config:     testMQTTConfig(),
		MQTTClient: NewMockMQTTClient(),
		Sink:       &MockSink{},
		Logger:     logging.Default(),
	})

	if err != nil {
		t.Fatalf("NewBridge() error: %v", err)
	}
	if b == nil {
		t.Fatal("NewBridge() returned nil")
	}
}

func TestNewBridgeMissingMQTT(t *testing.T) {
	_, err := NewBridge(Options{
		Config: testMQTTConfig(),
		Sink:   &MockSink{},
		Logger: logging.Default(),
	})

	if err == nil {
		t.Error("NewBridge() expected error for nil MQTT client")
	}
}

func TestNewBridgeMissingSink(t *testing.T) {
	_, err := NewBridge(Options{
		Config:     testMQTTConfig(),
		MQTTClient: NewMockMQTTClient(),
		Logger:     logging.Default(),
	})

	if err == nil {
		t.Error("NewBridge() expected error for nil sink")
	}
}

func TestNewBridgeMissingLogger(t *testing.T) {
	_, err := NewBridge(Options{
		Config:     testMQTTConfig(),
		MQTTClient: NewMockMQTTClient(),
		Sink:       &MockSink{},
	})

	if err == nil {
		t.Error("NewBridge() expected error for nil logger")
	}
}

func TestBridgeStartStop(t *testing.T) {
	b := createTestBridge(t, NewMockMQTTClient(), &MockSink{})

	if err := b.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	b.Stop()

	// Calling Stop again should be safe (sync.Once)
	b.Stop()
}

func TestBridgeStartSubscribes(t *testing.T) {
	mqtt := NewMockMQTTClient()
	b := createTestBridge(t, mqtt, &MockSink{})

	if err := b.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer b.Stop()

	subs := mqtt.GetSubscriptions()
	if len(subs) != 1 {
		t.Fatalf("Expected 1 subscription, got %d", len(subs))
	}
	if subs[0].Topic != testCommandTopic {
		t.Errorf("Subscribed topic = %q, want %q", subs[0].Topic, testCommandTopic)
	}
	if subs[0].QoS != 1 {
		t.Errorf("Subscribed QoS = %d, want 1", subs[0].QoS)
	}
}

func TestBridgeStartSubscribeFailure(t *testing.T) {
	mqtt := NewMockMQTTClient()
	mqtt.SetSubscribeError(errors.New("not connected"))
	b := createTestBridge(t, mqtt, &MockSink{})

	if err := b.Start(); err == nil {
		t.Error("Start() expected error when subscribe fails")
	}
}

func TestBridgeCommandToSink(t *testing.T) {
	mqtt := NewMockMQTTClient()
	sink := &MockSink{}
	b := createTestBridge(t, mqtt, sink)

	if err := b.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer b.Stop()

	mqtt.SimulateMessage(testCommandTopic, []byte(`{"state":"OFF","brightness":30}`))

	applied := sink.GetApplied()
	if len(applied) != 1 {
		t.Fatalf("Expected 1 applied update, got %d", len(applied))
	}
	u := applied[0]
	if u.Power == nil || *u.Power != false {
		t.Errorf("Update.Power = %v, want off", u.Power)
	}
	if u.Brightness == nil || *u.Brightness != 30 {
		t.Errorf("Update.Brightness = %v, want 30", u.Brightness)
	}
	if u.Hue != nil || u.Saturation != nil || u.Effect != nil {
		t.Errorf("Unexpected fields set in update: %+v", u)
	}
}

func TestBridgeMalformedCommandIgnored(t *testing.T) {
	mqtt := NewMockMQTTClient()
	sink := &MockSink{}
	b := createTestBridge(t, mqtt, sink)

	if err := b.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer b.Stop()

	mqtt.SimulateMessage(testCommandTopic, []byte(`[1,2,3]`))
	mqtt.SimulateMessage(testCommandTopic, []byte(`not json`))

	if got := len(sink.GetApplied()); got != 0 {
		t.Errorf("Expected 0 applied updates, got %d", got)
	}
}

func TestBridgeNotifyStatePublishesRetained(t *testing.T) {
	mqtt := NewMockMQTTClient()
	b := createTestBridge(t, mqtt, &MockSink{})

	if err := b.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	st := light.State{Power: true, Color: light.ColorHSV{Hue: 180, Sat: 100, Val: 50}}
	payload, err := light.EncodeSnapshot(st)
	if err != nil {
		t.Fatalf("EncodeSnapshot() error: %v", err)
	}
	b.NotifyState(st, payload)

	// Stop waits for the publisher to drain, so the publish list is
	// stable afterwards.
	b.Stop()

	pubs := mqtt.GetPublished()
	if len(pubs) != 1 {
		t.Fatalf("Expected 1 publish, got %d", len(pubs))
	}
	p := pubs[0]
	if p.Topic != testStateTopic {
		t.Errorf("Publish topic = %q, want %q", p.Topic, testStateTopic)
	}
	if !p.Retained {
		t.Error("State publish should be retained")
	}
	if p.QoS != 1 {
		t.Errorf("Publish QoS = %d, want 1", p.QoS)
	}
	if string(p.Payload) != string(payload) {
		t.Errorf("Publish payload = %s, want %s", p.Payload, payload)
	}
}

func TestBridgeLatestSnapshotWins(t *testing.T) {
	mqtt := NewMockMQTTClient()
	b := createTestBridge(t, mqtt, &MockSink{})

	// Queue several snapshots before the publisher starts; only the
	// newest should survive.
	st := light.State{Power: true, Color: light.ColorHSV{Hue: 10, Sat: 100, Val: 50}}
	b.NotifyState(st, []byte(`{"n":1}`))
	b.NotifyState(st, []byte(`{"n":2}`))
	b.NotifyState(st, []byte(`{"n":3}`))

	if err := b.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	b.Stop()

	pubs := mqtt.GetPublished()
	if len(pubs) != 1 {
		t.Fatalf("Expected 1 publish, got %d", len(pubs))
	}
	if string(pubs[0].Payload) != `{"n":3}` {
		t.Errorf("Publish payload = %s, want newest snapshot", pubs[0].Payload)
	}
}

func TestBridgePublishState(t *testing.T) {
	mqtt := NewMockMQTTClient()
	b := createTestBridge(t, mqtt, &MockSink{})

	if err := b.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	st := light.State{
		Power:  true,
		Color:  light.ColorHSV{Hue: 200, Sat: 80, Val: 60},
		Effect: light.EffectRainbow,
	}
	b.PublishState(st)
	b.Stop()

	pubs := mqtt.GetPublished()
	if len(pubs) != 1 {
		t.Fatalf("Expected 1 publish, got %d", len(pubs))
	}

	var snap light.Snapshot
	if err := json.Unmarshal(pubs[0].Payload, &snap); err != nil {
		t.Fatalf("Failed to unmarshal snapshot: %v", err)
	}
	if snap.State != "ON" {
		t.Errorf("Snapshot.State = %q, want ON", snap.State)
	}
	if snap.Brightness != 60 {
		t.Errorf("Snapshot.Brightness = %d, want 60", snap.Brightness)
	}
	if snap.Effect != "rainbow" {
		t.Errorf("Snapshot.Effect = %q, want rainbow", snap.Effect)
	}
	if snap.Color.H != 200 || snap.Color.S != 80 {
		t.Errorf("Snapshot.Color = %+v, want h=200 s=80", snap.Color)
	}
	if snap.ID != "" {
		t.Errorf("Snapshot.ID = %q, want empty on MQTT", snap.ID)
	}
}

func TestBridgeNotifyStateAfterStopDropped(t *testing.T) {
	mqtt := NewMockMQTTClient()
	b := createTestBridge(t, mqtt, &MockSink{})

	if err := b.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	b.Stop()

	st := light.State{Power: true, Color: light.ColorHSV{Hue: 5, Sat: 5, Val: 5}}
	b.NotifyState(st, []byte(`{"late":true}`))

	if got := len(mqtt.GetPublished()); got != 0 {
		t.Errorf("Expected 0 publishes after stop, got %d", got)
	}
}

func TestBridgePublishFailureDropped(t *testing.T) {
	mqtt := NewMockMQTTClient()
	mqtt.SetPublishError(errors.New("broker unavailable"))
	b := createTestBridge(t, mqtt, &MockSink{})

	if err := b.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	st := light.State{Power: true, Color: light.ColorHSV{Hue: 180, Sat: 100, Val: 50}}
	payload, _ := light.EncodeSnapshot(st)
	b.NotifyState(st, payload)
	b.Stop()

	// The attempt was made; the failure must not break the publisher.
	if got := len(mqtt.GetPublished()); got != 1 {
		t.Errorf("Expected 1 publish attempt, got %d", got)
	}
}
