// Package rulenode holds the rule-node component descriptor model.
//
// A Descriptor describes one pluggable processing-node type offered by the
// rule engine: its category (Type), display Name, the class identifier
// (Clazz) used as the stable lookup key, and a NodeDefinition carrying the
// relation labels the node can emit and the UI resources its configuration
// form needs.
//
// # Synthetic descriptors
//
// Two descriptors never come from the server:
//   - RuleChainComponent represents a hop into another rule chain
//   - Unknown builds a placeholder for a class no descriptor declares
//
// # Ordering
//
// Sort orders descriptors by Type then Name using root-locale collation, so
// category tags compare case-insensitively at the primary level.
package rulenode
