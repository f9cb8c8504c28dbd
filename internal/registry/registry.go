// Package registry maps caller-facing model aliases onto the fixed set of
// backend inference models. The table is built once and never mutated, so
// lookups need no synchronization.
package registry

import (
	"sort"

	"github.com/sleepstars/modelgate/internal/models"
)

// Backend model identifiers actually invoked.
const (
	BackendLlama8B  = "@cf/meta/llama-3.1-8b-instruct"
	BackendLlama70B = "@cf/meta/llama-3.3-70b-instruct"
	BackendMistral  = "@cf/mistralai/mistral-small-3.1-24b-instruct"
)

// DefaultBackendModel is returned for any alias not present in the table.
// Unknown names are never rejected; they fall back to the cheapest variant.
const DefaultBackendModel = BackendLlama8B

var aliases = map[string]string{
	"gpt-3.5-turbo": BackendLlama8B,
	"gpt-4o-mini":   BackendLlama8B,
	"gpt-4":         BackendLlama70B,
	"gpt-4-turbo":   BackendLlama70B,
	"gpt-4o":        BackendLlama70B,
	"gpt-4.1":       BackendLlama70B,
	"gpt-4.1-mini":  BackendMistral,
	"o3-mini":       BackendMistral,
}

// Resolve returns the backend model for a caller-supplied alias, or
// DefaultBackendModel when the alias is unknown.
func Resolve(requested string) string {
	if backend, ok := aliases[requested]; ok {
		return backend
	}
	return DefaultBackendModel
}

// List enumerates every alias in the table for GET /v1/models, in stable
// lexical order.
func List() []models.ModelInfo {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]models.ModelInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, models.ModelInfo{
			ID:      name,
			Object:  "model",
			OwnedBy: "modelgate",
		})
	}
	return infos
}
