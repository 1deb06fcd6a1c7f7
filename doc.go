// Package lenagent provides top-level documentation for the go-lenagent
// module: a small tool-using agent with exact-match caching of model
// responses. The module is organized as multiple subpackages (e.g. `llm`,
// `agent`, `cache`, `tools`, `memory`, `observability`, and `server`).
//
// Importers typically depend on the subpackages directly, for example:
//
//	import (
//	  "github.com/lenagent/go-lenagent/llm"
//	  "github.com/lenagent/go-lenagent/agent/core"
//	  "github.com/lenagent/go-lenagent/cache"
//	)
//
// The root package intentionally keeps a small surface area to avoid
// stuttering and to keep subpackages composable.
package lenagent
