package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultAliases maps problem names used by other practice lists to the
// title the catalog knows them by.
var DefaultAliases = map[string]string{
	"two integer sum":                   "two sum",
	"two integer sum ii":                "two sum ii input array is sorted",
	"three integer sum":                 "3sum",
	"duplicate integer":                 "contains duplicate",
	"is anagram":                        "valid anagram",
	"anagram groups":                    "group anagrams",
	"top k elements in list":            "top k frequent elements",
	"string encode and decode":          "encode and decode strings",
	"products of array discluding self": "product of array except self",
	"is palindrome":                     "valid palindrome",
	"max water container":               "container with most water",
	"validate parentheses":              "valid parentheses",
	"minimum stack":                     "min stack",
	"search 2d matrix":                  "search a 2d matrix",
	"buy and sell crypto":               "best time to buy and sell stock",
	"reverse a linked list":             "reverse linked list",
	"merge two sorted linked lists":     "merge two sorted lists",
	"linked list cycle detection":       "linked list cycle",
	"find duplicate integer":            "find the duplicate number",
	"binary tree diameter":              "diameter of binary tree",
	"count number of islands":           "number of islands",
	"count connected components":        "number of connected components in an undirected graph",
	"climbing stairs ii":                "min cost climbing stairs",
}

type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadAliases reads a YAML file of the form
//
//	aliases:
//	  duplicate integer: contains duplicate
//
// Keys and values are normalized the same way matcher input is.
func LoadAliases(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}
	var f aliasFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode alias file: %w", err)
	}
	out := make(map[string]string, len(f.Aliases))
	for k, v := range f.Aliases {
		if k, v = normalize(k), normalize(v); k != "" && v != "" {
			out[k] = v
		}
	}
	return out, nil
}

// MergeAliases overlays extra on top of base without modifying either.
func MergeAliases(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[normalize(k)] = normalize(v)
	}
	for k, v := range extra {
		out[normalize(k)] = normalize(v)
	}
	return out
}
