package testutil

import "github.com/zjrosen/rulekit/internal/domain/rulenode"

const (
	ScriptFilterClazz  = "org.example.rule.engine.filter.TbJsFilterNode"
	SwitchFilterClazz  = "org.example.rule.engine.filter.TbJsSwitchNode"
	LogActionClazz     = "org.example.rule.engine.action.TbLogNode"
	TransformClazz     = "org.example.rule.engine.transform.TbTransformMsgNode"
	EnrichmentClazz    = "org.example.rule.engine.metadata.TbGetAttributesNode"
	CoreConfigResource = "static/rulenode/rulenode-core-config.js"
)

// WithStandardComponents adds one node per category. The script filter
// and the transform node reference the core config resource.
func (b *Builder) WithStandardComponents() *Builder {
	return b.
		WithComponent(rulenode.TypeFilter, ScriptFilterClazz,
			Name("script"), Relations("True", "False"), UIResources(CoreConfigResource)).
		WithComponent(rulenode.TypeFilter, SwitchFilterClazz,
			Name("switch"), Relations(), CustomRelations()).
		WithComponent(rulenode.TypeAction, LogActionClazz,
			Name("log"), Details("Logs the incoming message")).
		WithComponent(rulenode.TypeTransformation, TransformClazz,
			Name("script"), UIResources(CoreConfigResource)).
		WithComponent(rulenode.TypeEnrichment, EnrichmentClazz,
			Name("originator attributes"))
}

// WithCoreResource adds the resource referenced by the standard components.
func (b *Builder) WithCoreResource() *Builder {
	return b.WithResource(CoreConfigResource, "application/javascript", "export default {};")
}
