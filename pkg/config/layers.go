package config

import (
	"strings"

	"github.com/goliatone/go-projectstorage"
)

// mergeConfig composes host configs ordered from strongest to weakest. A
// blank value in a stronger layer falls through, so an unset environment
// variable never masks a value from a store file.
func mergeConfig(layers ...storage.Config) storage.Config {
	var merged storage.Config
	for _, layer := range layers {
		merged.AssetHost = firstSet(merged.AssetHost, layer.AssetHost)
		merged.ProjectHost = firstSet(merged.ProjectHost, layer.ProjectHost)
		merged.ProjectToken = firstSet(merged.ProjectToken, layer.ProjectToken)
	}
	return merged
}

func firstSet(current, candidate string) string {
	if current != "" {
		return current
	}
	return strings.TrimSpace(candidate)
}
