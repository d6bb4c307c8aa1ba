package domain

// KeyPrefix namespaces every key contentdex writes to a key-value store.
const KeyPrefix = "contentdex:"

// Search limits shared by the orchestrator and the collection adapters.
const (
	// MaxPerCategory caps each per-category intermediate result set.
	MaxPerCategory = 20
	// MaxPageSize caps the merged result page.
	MaxPageSize = 20
	// DefaultDescriptionLength bounds descriptions derived from long-form content.
	DefaultDescriptionLength = 200
)
