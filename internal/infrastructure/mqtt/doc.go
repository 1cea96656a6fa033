// Package mqtt provides MQTT client connectivity for the Gray Logic companion.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Retained publishing of automation summaries
//   - Subscriptions to node-config and automation record topics
//   - Last Will and Testament (LWT) for offline detection
//
// # Topics
//
//	graylogic/catalog/node/{node_id}           node configs (retained, in)
//	graylogic/automation/{automation_id}       automation records (retained, in)
//	graylogic/ui/automation/{id}/summary       rendered summaries (retained, out)
//	graylogic/system/companion                 online/offline status and LWT
//
// An empty retained payload on an inbound topic means the record was
// deleted.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.AllCatalogNodes(), 1,
//	    func(topic string, payload []byte) error {
//	        return handleNode(mqtt.LastSegment(topic), payload)
//	    })
//
//	client.PublishRetained(mqtt.Topics{}.AutomationSummary("a1"), payload)
package mqtt
