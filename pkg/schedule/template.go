package schedule

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TemplateBlock is one daily block in a weekly template. Blocks without
// a days list repeat every day of the week.
type TemplateBlock struct {
	Start string   `yaml:"start"`
	End   string   `yaml:"end"`
	Name  string   `yaml:"name"`
	Type  string   `yaml:"type"`
	Days  []string `yaml:"days,omitempty"`
}

// Template describes the recurring weekly schedule.
type Template struct {
	Blocks []TemplateBlock `yaml:"blocks"`
}

// LoadTemplate reads a weekly template from a YAML file. A missing file
// returns the built-in default template.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Template{Blocks: defaultTemplate}, nil
		}
		return nil, fmt.Errorf("failed to read schedule template: %w", err)
	}

	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("failed to parse schedule template: %w", err)
	}
	if len(tmpl.Blocks) == 0 {
		return nil, fmt.Errorf("schedule template %s defines no blocks", path)
	}

	return &tmpl, nil
}

// Expand builds the full week of blocks from the template, assigning
// sequential IDs the way a fresh schedule file would.
func (t *Template) Expand() ([]Block, error) {
	var blocks []Block
	id := 1

	for _, day := range weekdays {
		for _, tb := range t.Blocks {
			if len(tb.Days) > 0 && !containsDay(tb.Days, day) {
				continue
			}

			block := Block{
				ID:    id,
				Day:   day,
				Start: tb.Start,
				End:   tb.End,
				Name:  tb.Name,
				Type:  tb.Type,
			}
			if err := block.Validate(); err != nil {
				return nil, fmt.Errorf("template block %q: %w", tb.Name, err)
			}

			blocks = append(blocks, block)
			id++
		}
	}

	return blocks, nil
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
