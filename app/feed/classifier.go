package feed

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed classifier.yml
var taxonomyYAML []byte

// Classifier maps a feed's title and description to one of a fixed set of
// category labels via ordered keyword matching. Classification never
// fails: when no group matches it degrades to the default label.
type Classifier struct {
	groups   []classifierGroup
	fallback string
}

type classifierGroup struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

type classifierTaxonomy struct {
	Groups  []classifierGroup `yaml:"groups"`
	Default string            `yaml:"default"`
}

func NewClassifier() (*Classifier, error) {
	var taxonomy classifierTaxonomy
	if err := yaml.Unmarshal(taxonomyYAML, &taxonomy); err != nil {
		return nil, fmt.Errorf("failed to parse category taxonomy: %w", err)
	}
	if len(taxonomy.Groups) == 0 || taxonomy.Default == "" {
		return nil, fmt.Errorf("category taxonomy is incomplete")
	}

	return &Classifier{
		groups:   taxonomy.Groups,
		fallback: taxonomy.Default,
	}, nil
}

// Run returns the category label of the first keyword group matching the
// concatenated title and description.
func (c *Classifier) Run(title, description string) string {
	text := strings.ToLower(title + " " + description)

	for _, group := range c.groups {
		for _, keyword := range group.Keywords {
			if strings.Contains(text, keyword) {
				return group.Category
			}
		}
	}

	return c.fallback
}

// Categories returns every label the classifier can produce, in taxonomy
// order. The content store must carry a category row for each.
func (c *Classifier) Categories() []string {
	labels := make([]string, 0, len(c.groups))
	for _, group := range c.groups {
		labels = append(labels, group.Category)
	}
	return labels
}
