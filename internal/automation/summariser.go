package automation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-companion/internal/catalog"
	"github.com/nerrad567/gray-logic-companion/internal/infrastructure/mqtt"
)

// Render sources reported to the Observer.
const (
	SourceAPI      = "api"
	SourceDescribe = "describe"
	SourceMQTT     = "mqtt"
	SourceStartup  = "startup"
)

// Inbound message kinds and results reported to the Observer.
const (
	KindNode       = "node"
	KindAutomation = "automation"

	ResultStored   = "stored"
	ResultDeleted  = "deleted"
	ResultRejected = "rejected"
)

// CatalogStore is what the Summariser needs from the catalog registry.
type CatalogStore interface {
	Snapshot() *catalog.Catalog
	SaveNode(ctx context.Context, node *catalog.Node) error
	DeleteNode(ctx context.Context, id string) error
}

// MQTTClient is the subset of the MQTT client used for ingest and publishing.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Observer receives render and ingest events, typically for metrics.
type Observer interface {
	ObserveRender(source string, duration time.Duration)
	ObserveMessage(kind, result string)
}

type noopObserver struct{}

func (noopObserver) ObserveRender(string, time.Duration) {}
func (noopObserver) ObserveMessage(string, string)       {}

// SummariserConfig holds the Summariser's collaborators.
type SummariserConfig struct {
	Automations *Registry
	Catalog     CatalogStore
	MQTT        MQTTClient // optional; nil disables ingest and publishing
	QoS         byte
	Publish     bool     // send retained summaries; ingest works without it
	Observer    Observer // optional
	Logger      Logger   // optional
}

// Summariser renders stored automations against the live catalog and keeps
// retained summary topics current.
//
// Thread Safety: all methods are safe for concurrent use.
type Summariser struct {
	automations *Registry
	catalog     CatalogStore
	mqtt        MQTTClient
	qos         byte
	publishing  bool
	observer    Observer
	logger      Logger
}

// NewSummariser creates a Summariser.
func NewSummariser(cfg SummariserConfig) *Summariser {
	s := &Summariser{
		automations: cfg.Automations,
		catalog:     cfg.Catalog,
		mqtt:        cfg.MQTT,
		qos:         cfg.QoS,
		publishing:  cfg.Publish,
		observer:    cfg.Observer,
		logger:      cfg.Logger,
	}
	if s.observer == nil {
		s.observer = noopObserver{}
	}
	if s.logger == nil {
		s.logger = noopLogger{}
	}
	return s
}

// Summary renders one stored automation.
func (s *Summariser) Summary(ctx context.Context, id string) (Summary, error) {
	a, err := s.automations.GetAutomation(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	return s.Render(a, s.catalog.Snapshot(), SourceAPI), nil
}

// Render describes a against cat and reports the render to the Observer.
func (s *Summariser) Render(a *Automation, cat CatalogLookup, source string) Summary {
	start := time.Now()
	summary := Describe(a, cat)
	s.observer.ObserveRender(source, time.Since(start))
	return summary
}

// Publish renders a and publishes it as a retained summary message.
func (s *Summariser) Publish(_ context.Context, a *Automation) error {
	return s.publish(a, s.catalog.Snapshot(), SourceMQTT)
}

func (s *Summariser) publish(a *Automation, cat *catalog.Catalog, source string) error {
	if s.mqtt == nil {
		return ErrMQTTUnavailable
	}
	if !s.publishing {
		return nil
	}

	payload, err := json.Marshal(s.Render(a, cat, source))
	if err != nil {
		return fmt.Errorf("marshalling summary: %w", err)
	}

	topic := mqtt.Topics{}.AutomationSummary(a.ID)
	if err := s.mqtt.Publish(topic, payload, s.qos, true); err != nil {
		return fmt.Errorf("publishing summary %s: %w", a.ID, err)
	}
	return nil
}

// PublishAll publishes every stored automation against one catalog snapshot.
// Failures are logged and the last one is returned after all are attempted.
func (s *Summariser) PublishAll(ctx context.Context) error {
	return s.publishEach(ctx, s.automations.ListAutomations(ctx), SourceStartup)
}

// PublishForNode republishes the automations that reference nodeID.
func (s *Summariser) PublishForNode(ctx context.Context, nodeID string) error {
	return s.publishEach(ctx, s.automations.ListByNode(ctx, nodeID), SourceMQTT)
}

func (s *Summariser) publishEach(ctx context.Context, automations []Automation, source string) error {
	if s.mqtt == nil {
		return ErrMQTTUnavailable
	}
	if !s.publishing {
		return nil
	}

	cat := s.catalog.Snapshot()
	var lastErr error
	for i := range automations {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.publish(&automations[i], cat, source); err != nil {
			s.logger.Warn("summary publish failed", "automation_id", automations[i].ID, "error", err)
			lastErr = err
		}
	}

	s.logger.Debug("summaries published", "count", len(automations), "source", source)
	return lastErr
}

// ClearSummary removes the retained summary of an automation.
func (s *Summariser) ClearSummary(id string) error {
	if s.mqtt == nil {
		return ErrMQTTUnavailable
	}
	if !s.publishing {
		return nil
	}
	return s.mqtt.Publish(mqtt.Topics{}.AutomationSummary(id), nil, s.qos, true)
}

// Start subscribes to node-config and automation record topics.
//
// Retained node configs update the catalog and republish the summaries
// that reference the node. Automation records are stored and published.
// An empty payload deletes the record.
func (s *Summariser) Start(_ context.Context) error {
	if s.mqtt == nil {
		return ErrMQTTUnavailable
	}

	topics := mqtt.Topics{}
	if err := s.mqtt.Subscribe(topics.AllCatalogNodes(), s.qos, s.handleNode); err != nil {
		return fmt.Errorf("subscribing to node configs: %w", err)
	}
	if err := s.mqtt.Subscribe(topics.AllAutomationDefinitions(), s.qos, s.handleAutomation); err != nil {
		return fmt.Errorf("subscribing to automations: %w", err)
	}

	s.logger.Info("summariser subscribed",
		"nodes", topics.AllCatalogNodes(),
		"automations", topics.AllAutomationDefinitions(),
	)
	return nil
}

// handlerTimeout bounds storage work done for one inbound message.
const handlerTimeout = 10 * time.Second

func (s *Summariser) handleNode(topic string, payload []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	nodeID := mqtt.LastSegment(topic)

	if len(payload) == 0 {
		if err := s.catalog.DeleteNode(ctx, nodeID); err != nil && !errors.Is(err, catalog.ErrNodeNotFound) {
			s.observer.ObserveMessage(KindNode, ResultRejected)
			return fmt.Errorf("deleting node %s: %w", nodeID, err)
		}
		s.observer.ObserveMessage(KindNode, ResultDeleted)
		return s.PublishForNode(ctx, nodeID)
	}

	node, err := catalog.ParseNodeConfig(payload)
	if err != nil {
		s.observer.ObserveMessage(KindNode, ResultRejected)
		return err
	}
	if node.ID == "" {
		node.ID = nodeID
	}
	if node.ID != nodeID {
		s.observer.ObserveMessage(KindNode, ResultRejected)
		return fmt.Errorf("%w: node_id %q does not match topic %q", catalog.ErrInvalidNode, node.ID, topic)
	}

	if err := s.catalog.SaveNode(ctx, node); err != nil {
		s.observer.ObserveMessage(KindNode, ResultRejected)
		return err
	}
	s.observer.ObserveMessage(KindNode, ResultStored)

	return s.PublishForNode(ctx, nodeID)
}

func (s *Summariser) handleAutomation(topic string, payload []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	id := mqtt.LastSegment(topic)

	if len(payload) == 0 {
		if err := s.automations.DeleteAutomation(ctx, id); err != nil && !errors.Is(err, ErrAutomationNotFound) {
			s.observer.ObserveMessage(KindAutomation, ResultRejected)
			return fmt.Errorf("deleting automation %s: %w", id, err)
		}
		s.observer.ObserveMessage(KindAutomation, ResultDeleted)
		return s.ClearSummary(id)
	}

	a, err := DecodeJSON(payload)
	if err != nil {
		s.observer.ObserveMessage(KindAutomation, ResultRejected)
		return err
	}
	if a.ID == "" {
		a.ID = id
	}
	if a.ID != id {
		s.observer.ObserveMessage(KindAutomation, ResultRejected)
		return fmt.Errorf("%w: automation_id %q does not match topic %q", ErrInvalidAutomation, a.ID, topic)
	}

	if err := s.automations.SaveAutomation(ctx, a); err != nil {
		s.observer.ObserveMessage(KindAutomation, ResultRejected)
		return err
	}
	s.observer.ObserveMessage(KindAutomation, ResultStored)

	return s.Publish(ctx, a)
}
