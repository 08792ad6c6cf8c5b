package gen

import "sort"

// Template describes one entry in the embedded template family.
type Template struct {
	Name        string
	Description string
}

var registry = []Template{
	{
		Name: PoolTemplate,
		Description: "randomized free pool: per-processor sharded object cache, " +
			"expanded once per element type into optimized and race-instrumented variants",
	},
}

// Templates lists the embedded templates, sorted by name.
func Templates() []Template {
	out := make([]Template, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
