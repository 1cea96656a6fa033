package mqtt

import "fmt"

// Topic prefixes used by the companion.
const (
	// TopicPrefixCatalog is the base for node-config topics.
	TopicPrefixCatalog = "graylogic/catalog"

	// TopicPrefixAutomation is the base for automation record topics.
	TopicPrefixAutomation = "graylogic/automation"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "graylogic/system"

	// TopicPrefixUI is the base for topics read by mobile and wall-panel clients.
	TopicPrefixUI = "graylogic/ui"
)

// Topics provides builders for companion MQTT topics.
//
//	topics := mqtt.Topics{}
//	topics.AutomationSummary("a1")
//	// Returns: "graylogic/ui/automation/a1/summary"
type Topics struct{}

// CatalogNode returns the retained node-config topic for a node.
//
// Example: graylogic/catalog/node/N1
func (Topics) CatalogNode(nodeID string) string {
	return fmt.Sprintf("%s/node/%s", TopicPrefixCatalog, nodeID)
}

// AllCatalogNodes matches every node-config topic.
func (Topics) AllCatalogNodes() string {
	return TopicPrefixCatalog + "/node/+"
}

// AutomationDefinition returns the retained record topic for an automation.
//
// Example: graylogic/automation/a1
func (Topics) AutomationDefinition(automationID string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixAutomation, automationID)
}

// AllAutomationDefinitions matches every automation record topic.
func (Topics) AllAutomationDefinitions() string {
	return TopicPrefixAutomation + "/+"
}

// AutomationSummary returns the retained summary topic for an automation.
//
// Example: graylogic/ui/automation/a1/summary
func (Topics) AutomationSummary(automationID string) string {
	return fmt.Sprintf("%s/automation/%s/summary", TopicPrefixUI, automationID)
}

// AllAutomationSummaries matches every summary topic.
func (Topics) AllAutomationSummaries() string {
	return TopicPrefixUI + "/automation/+/summary"
}

// CompanionStatus returns the retained online/offline status topic.
// It also carries the Last Will and Testament.
func (Topics) CompanionStatus() string {
	return TopicPrefixSystem + "/companion"
}

// LastSegment returns the final level of a topic, such as the node ID of
// graylogic/catalog/node/N1. It returns "" for an empty topic.
func LastSegment(topic string) string {
	for i := len(topic) - 1; i >= 0; i-- {
		if topic[i] == '/' {
			return topic[i+1:]
		}
	}
	return topic
}
