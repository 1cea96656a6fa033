package mqtt

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-logic-companion/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "graylogic-companion-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// =============================================================================
// Topics Tests
// =============================================================================

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"CatalogNode", topics.CatalogNode("N1"), "graylogic/catalog/node/N1"},
		{"AllCatalogNodes", topics.AllCatalogNodes(), "graylogic/catalog/node/+"},
		{"AutomationDefinition", topics.AutomationDefinition("a1"), "graylogic/automation/a1"},
		{"AllAutomationDefinitions", topics.AllAutomationDefinitions(), "graylogic/automation/+"},
		{"AutomationSummary", topics.AutomationSummary("a1"), "graylogic/ui/automation/a1/summary"},
		{"AllAutomationSummaries", topics.AllAutomationSummaries(), "graylogic/ui/automation/+/summary"},
		{"CompanionStatus", topics.CompanionStatus(), "graylogic/system/companion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}

func TestLastSegment(t *testing.T) {
	tests := map[string]string{
		"graylogic/catalog/node/N1": "N1",
		"graylogic/automation/a-1":  "a-1",
		"single":                    "single",
		"trailing/":                 "",
		"":                          "",
	}
	for in, want := range tests {
		if got := LastSegment(in); got != want {
			t.Errorf("LastSegment(%q) = %q, want %q", in, got, want)
		}
	}
}

// =============================================================================
// Options Tests
// =============================================================================

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Username = "companion"
	cfg.Auth.Password = "secret"

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "tcp://127.0.0.1:1883" {
		t.Errorf("Servers = %v, want tcp://127.0.0.1:1883", opts.Servers)
	}
	if opts.ClientID != cfg.Broker.ClientID {
		t.Errorf("ClientID = %q, want %q", opts.ClientID, cfg.Broker.ClientID)
	}
	if opts.Username != "companion" || opts.Password != "secret" {
		t.Error("credentials not applied")
	}
	if !opts.AutoReconnect {
		t.Error("AutoReconnect should be enabled")
	}
	if opts.TLSConfig != nil && opts.TLSConfig.MinVersion != 0 {
		t.Error("TLS config should not be set without tls")
	}
}

func TestBuildClientOptionsTLS(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true
	cfg.Broker.Port = 8883

	opts := buildClientOptions(cfg)

	if opts.Servers[0].Scheme != "ssl" {
		t.Errorf("scheme = %q, want ssl", opts.Servers[0].Scheme)
	}
	if opts.TLSConfig == nil || opts.TLSConfig.MinVersion != tlsMinVersion {
		t.Error("TLS config should enforce the minimum version")
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := pahomqtt.NewClientOptions()
	configureLWT(opts, "graylogic-companion")

	if !opts.WillEnabled {
		t.Fatal("will should be enabled")
	}
	if opts.WillTopic != "graylogic/system/companion" {
		t.Errorf("WillTopic = %q", opts.WillTopic)
	}
	if !opts.WillRetained {
		t.Error("will should be retained")
	}

	var payload map[string]string
	if err := json.Unmarshal(opts.WillPayload, &payload); err != nil {
		t.Fatalf("will payload is not JSON: %v", err)
	}
	if payload["status"] != "offline" || payload["reason"] != "unexpected_disconnect" {
		t.Errorf("will payload = %v", payload)
	}
}

func TestStatusPayloads(t *testing.T) {
	for name, raw := range map[string]string{
		"online":  buildOnlinePayload("c1"),
		"offline": buildOfflinePayload("c1"),
	} {
		var payload map[string]string
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			t.Fatalf("%s payload is not JSON: %v", name, err)
		}
		if payload["status"] != name {
			t.Errorf("%s payload status = %q", name, payload["status"])
		}
		if payload["client_id"] != "c1" || payload["service"] != "companion" {
			t.Errorf("%s payload = %v", name, payload)
		}
	}
}

// =============================================================================
// Handler Wrapping Tests
// =============================================================================

// fakeMessage implements pahomqtt.Message.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return true }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

// mockLogger implements Logger for testing.
type mockLogger struct {
	errors []string
	warns  []string
	mu     sync.Mutex
}

func (l *mockLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	l.errors = append(l.errors, msg)
	l.mu.Unlock()
}

func (l *mockLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	l.warns = append(l.warns, msg)
	l.mu.Unlock()
}

func TestWrapHandlerDeliversMessage(t *testing.T) {
	c := &Client{}
	var gotTopic, gotPayload string

	h := c.wrapHandler(func(topic string, payload []byte) error {
		gotTopic, gotPayload = topic, string(payload)
		return nil
	})
	h(nil, fakeMessage{topic: "graylogic/catalog/node/N1", payload: []byte(`{}`)})

	if gotTopic != "graylogic/catalog/node/N1" || gotPayload != "{}" {
		t.Errorf("handler got %q %q", gotTopic, gotPayload)
	}
}

func TestWrapHandlerLogsErrors(t *testing.T) {
	c := &Client{}
	logger := &mockLogger{}
	c.SetLogger(logger)

	h := c.wrapHandler(func(string, []byte) error { return errors.New("bad payload") })
	h(nil, fakeMessage{topic: "graylogic/automation/a1"})

	if len(logger.warns) != 1 {
		t.Errorf("expected 1 warning, got %d", len(logger.warns))
	}
}

func TestWrapHandlerRecoversPanic(t *testing.T) {
	c := &Client{}
	logger := &mockLogger{}
	c.SetLogger(logger)

	h := c.wrapHandler(func(string, []byte) error { panic("boom") })
	h(nil, fakeMessage{topic: "graylogic/automation/a1"})

	if len(logger.errors) != 1 {
		t.Errorf("expected panic to be logged once, got %d", len(logger.errors))
	}
}

func TestWrapHandlerWithoutLogger(t *testing.T) {
	c := &Client{}
	h := c.wrapHandler(func(string, []byte) error { panic("boom") })
	h(nil, fakeMessage{topic: "t"}) // must not panic
}

// =============================================================================
// Lifecycle Tests (no broker)
// =============================================================================

func TestCloseNil(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on unconnected client error = %v", err)
	}
}

func TestSubscriptionTrackingEmpty(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}
	if c.SubscriptionCount() != 0 {
		t.Error("SubscriptionCount() should be 0")
	}
	if c.HasSubscription("graylogic/automation/+") {
		t.Error("HasSubscription() should be false")
	}
}
