// Package guardrails provides top-level documentation and a minimal facade for
// the go-guardrails module. The module is organized as multiple subpackages
// (e.g. `guardrail`, `agent/core`, `llm`, `memory`, `audit`, `observability`,
// and `server`).
//
// Importers typically depend on the subpackages directly, for example:
//
//	import (
//	  "github.com/gatewright/go-guardrails/guardrail"
//	  "github.com/gatewright/go-guardrails/guardrail/rules"
//	  "github.com/gatewright/go-guardrails/agent/core"
//	)
//
// The root package intentionally keeps a small surface area to avoid stuttering
// and to keep subpackages composable.
package guardrails
