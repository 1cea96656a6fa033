// Package automation stores automation records and renders them into
// human-readable summaries.
//
// An automation pairs events (conditions on its own node) with actions
// (param writes on any node). The description engine turns each half into
// one string by resolving node, device and param keys against a catalog:
//
//	events:  "Switch: power:true;Sensor: temp>30"
//	actions: "Switch: power:true;Bulb: power:false,brightness:40"
//
// Lines and the params within them are sorted in descending order. Keys
// that do not resolve are left out, so an empty string is a normal result.
//
// # Components
//
//   - describe.go: DescribeActions, DescribeEvents, Describe (pure, no I/O)
//   - value.go: the Value variant (bool, int, float, string)
//   - decode.go: raw records to Automation via mapstructure
//   - registry.go, repository.go: cached SQLite storage
//   - summariser.go: MQTT ingest and retained summary publishing
//
// # Usage
//
//	cat := catalogRegistry.Snapshot()
//	summary := automation.Describe(a, cat)
//	fmt.Println(summary.Actions)
package automation
