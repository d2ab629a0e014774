package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/sandeepkv93/mytodo/internal/model"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

type exportTask struct {
	Title       string `json:"title" yaml:"title" toml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty" yaml:"due_date,omitempty" toml:"due_date,omitempty"`
	DueTime     string `json:"time,omitempty" yaml:"time,omitempty" toml:"time,omitempty"`
	Priority    string `json:"priority" yaml:"priority" toml:"priority"`
	Completed   bool   `json:"completed" yaml:"completed" toml:"completed"`
	Important   bool   `json:"important" yaml:"important" toml:"important"`
	List        string `json:"listName,omitempty" yaml:"list,omitempty" toml:"list,omitempty"`
}

type exportList struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Icon string `json:"iconPath,omitempty" yaml:"icon,omitempty" toml:"icon,omitempty"`
}

type exportDoc struct {
	Lists []exportList `json:"lists" yaml:"lists" toml:"lists"`
	Tasks []exportTask `json:"tasks" yaml:"tasks" toml:"tasks"`
}

// Export writes tasks and lists to w in the given format.
func Export(w io.Writer, format string, tasks []model.Task, lists []model.List) error {
	doc := exportDoc{
		Lists: make([]exportList, 0, len(lists)),
		Tasks: make([]exportTask, 0, len(tasks)),
	}
	for _, l := range lists {
		doc.Lists = append(doc.Lists, exportList{Name: l.Name, Icon: l.Icon()})
	}
	for _, t := range tasks {
		item := exportTask{
			Title:       t.Title,
			Description: t.Description,
			Priority:    string(t.Priority),
			Completed:   t.Completed,
			Important:   t.Important,
			List:        t.List(),
		}
		if t.DueDate != nil {
			item.DueDate = t.DueDate.String()
		}
		if t.DueTime != nil {
			item.DueTime = t.DueTime.String()
		}
		doc.Tasks = append(doc.Tasks, item)
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("unsupported export format: %s. Supported formats are json, yaml, toml", format)
	}
}
