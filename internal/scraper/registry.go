package scraper

import (
	"sort"
	"strings"
)

var registry = map[string]Site{}

func Register(s Site) {
	registry[strings.ToLower(s.Name())] = s
}

func Get(name string) (Site, bool) {
	s, ok := registry[strings.ToLower(name)]
	return s, ok
}

// Names lists registered sites in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
