package automation

import (
	"sort"
	"strings"

	"github.com/nerrad567/gray-logic-companion/internal/catalog"
)

// CatalogLookup resolves node IDs for the description engine.
// *catalog.Catalog satisfies it.
type CatalogLookup interface {
	Node(id string) (catalog.Node, bool)
}

const (
	paramSeparator  = ","
	lineSeparator   = ";"
	labelSeparator  = ": "
	actionOperator  = ":"
	equalityCheck   = "=="
	equalityDisplay = ":"
)

// DescribeActions renders the param writes of an automation.
//
// Each resolved device becomes one line "<label>: <key>:<value>,...".
// Params within a line and the lines themselves are sorted in descending
// order; lines are joined with ";". Unknown nodes, devices and params are
// left out, so the result may be empty.
func DescribeActions(actions []ActionEntry, cat CatalogLookup) string {
	var lines []string
	for _, entry := range actions {
		node, ok := lookupNode(cat, entry.NodeID)
		if !ok {
			continue
		}
		lines = appendDeviceLines(lines, node, entry.Params, actionOperator)
	}
	return joinDescending(lines, lineSeparator)
}

// DescribeEvents renders the trigger conditions of an automation.
//
// Every event refers to ownerNodeID. The check operator sits between key
// and value; "==" is shown as ":" and any other operator is kept as is,
// so "temp>30". Entries without params or check are skipped. Sorting and
// joining follow DescribeActions.
func DescribeEvents(events []EventEntry, cat CatalogLookup, ownerNodeID string) string {
	node, ok := lookupNode(cat, ownerNodeID)
	if !ok {
		return ""
	}

	var lines []string
	for _, entry := range events {
		if entry.Params == nil || entry.Check == nil {
			continue
		}
		lines = appendDeviceLines(lines, node, entry.Params, displayOperator(*entry.Check))
	}
	return joinDescending(lines, lineSeparator)
}

// Describe renders both halves of a stored automation.
func Describe(a *Automation, cat CatalogLookup) Summary {
	if a == nil {
		return Summary{}
	}
	return Summary{
		AutomationID: a.ID,
		Name:         a.Name,
		Events:       DescribeEvents(a.Events, cat, a.NodeID),
		Actions:      DescribeActions(a.Actions, cat),
	}
}

func lookupNode(cat CatalogLookup, id string) (catalog.Node, bool) {
	if cat == nil {
		return catalog.Node{}, false
	}
	return cat.Node(id)
}

func displayOperator(check string) string {
	if check == equalityCheck {
		return equalityDisplay
	}
	return check
}

// appendDeviceLines adds one line per resolved device in params.
// A device whose params all miss still yields "<label>: ".
func appendDeviceLines(lines []string, node catalog.Node, params ParamValues, op string) []string {
	for deviceKey, values := range params {
		device, ok := node.Device(deviceKey)
		if !ok {
			continue
		}

		leaves := make([]string, 0, len(values))
		for paramKey, v := range values {
			param, ok := device.Param(paramKey)
			if !ok {
				continue
			}
			leaves = append(leaves, formatLeaf(param, op, v))
		}
		lines = append(lines, device.Label()+labelSeparator+joinDescending(leaves, paramSeparator))
	}
	return lines
}

// formatLeaf renders "<key><op><value>".
// Bool and non-bool params currently render identically.
func formatLeaf(param catalog.Param, op string, v Value) string {
	if param.DataType.IsBool() { //nolint:gocritic // bool and non-bool params render the same for now
		return param.Key + op + v.String()
	}
	return param.Key + op + v.String()
}

func joinDescending(items []string, sep string) string {
	sort.Sort(sort.Reverse(sort.StringSlice(items)))
	return strings.Join(items, sep)
}
