package rulechain

// RuleNode is one node of a rule chain. Type holds the descriptor clazz.
type RuleNode struct {
	ID             *EntityID      `json:"id,omitempty"`
	CreatedTime    int64          `json:"createdTime,omitempty"`
	RuleChainID    *EntityID      `json:"ruleChainId,omitempty"`
	Type           string         `json:"type"`
	Name           string         `json:"name"`
	DebugMode      bool           `json:"debugMode,omitempty"`
	Configuration  map[string]any `json:"configuration,omitempty"`
	AdditionalInfo map[string]any `json:"additionalInfo,omitempty"`
}

// NodeConnectionInfo connects two nodes of the same chain by index.
type NodeConnectionInfo struct {
	FromIndex int    `json:"fromIndex"`
	ToIndex   int    `json:"toIndex"`
	Type      string `json:"type"`
}

// MetaData is the node graph of a rule chain.
type MetaData struct {
	RuleChainID          EntityID             `json:"ruleChainId"`
	FirstNodeIndex       *int                 `json:"firstNodeIndex,omitempty"`
	Nodes                []RuleNode           `json:"nodes"`
	Connections          []NodeConnectionInfo `json:"connections"`
	RuleChainConnections []LinkReference      `json:"ruleChainConnections"`
}
