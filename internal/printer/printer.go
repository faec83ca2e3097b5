// Package printer renders resources as tables, JSON, YAML or raw text.
package printer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"k8s.io/apimachinery/pkg/util/duration"

	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

// Format is an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatRaw   Format = "raw"
)

// Formats lists the accepted output formats.
func Formats() []Format { return []Format{FormatTable, FormatJSON, FormatYAML, FormatRaw} }

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format: %s", s)
}

// Printer writes rendered resources to Out.
type Printer struct {
	Out io.Writer
	// Now is the reference time of ages; defaults to time.Now.
	Now func() time.Time
}

// New returns a Printer writing to out.
func New(out io.Writer) *Printer { return &Printer{Out: out} }

func (p *Printer) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Resources prints one resource or a list of resources of kind.
func (p *Printer) Resources(kind model.Kind, v value.Value, format Format) error {
	switch format {
	case FormatTable:
		items := []value.Value{v}
		if l, ok := v.(*value.List); ok {
			items = l.Items()
		}
		return p.Table(kind, items)
	case FormatJSON:
		return p.JSON(v)
	case FormatYAML:
		return p.YAML(v)
	case FormatRaw:
		return p.Raw(v)
	}
	return fmt.Errorf("unknown output format: %s", format)
}

// JSON prints v as indented JSON.
func (p *Printer) JSON(v value.Value) error {
	b, err := value.MarshalIndentJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.Out, string(b))
	return err
}

// YAML prints v as a YAML document.
func (p *Printer) YAML(v value.Value) error {
	b, err := value.EncodeYAML(v)
	if err != nil {
		return err
	}
	_, err = p.Out.Write(b)
	return err
}

// Raw prints scalars as plain text and containers as compact JSON.
func (p *Printer) Raw(v value.Value) error {
	s, err := Inline(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.Out, s)
	return err
}

// Value prints a value that is not a resource. Table falls back to raw.
func (p *Printer) Value(v value.Value, format Format) error {
	switch format {
	case FormatJSON:
		return p.JSON(v)
	case FormatYAML:
		return p.YAML(v)
	case FormatTable, FormatRaw:
		return p.Raw(v)
	}
	return fmt.Errorf("unknown output format: %s", format)
}

// Inline renders v on one line: scalars as text, containers as compact JSON.
func Inline(v value.Value) (string, error) {
	if s, ok := value.Text(v); ok {
		return s, nil
	}
	b, err := value.MarshalJSON(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// column extracts one cell of a table row.
type column struct {
	header string
	cell   func(p *Printer, r value.Value) string
}

func field(keys ...string) func(*Printer, value.Value) string {
	return func(_ *Printer, r value.Value) string { return value.PathString(r, keys...) }
}

func age(keys ...string) func(*Printer, value.Value) string {
	return func(p *Printer, r value.Value) string {
		t, ok := parseTime(value.PathString(r, keys...))
		if !ok {
			return ""
		}
		return duration.HumanDuration(p.now().Sub(t)) + " ago"
	}
}

func runDuration(_ *Printer, r value.Value) string {
	finished, ok := parseTime(value.PathString(r, "finished_at"))
	if !ok {
		return "..."
	}
	started, ok := parseTime(value.PathString(r, "started_at"))
	if !ok {
		return ""
	}
	return duration.HumanDuration(finished.Sub(started))
}

var tableColumns = map[model.Kind][]column{
	model.KindWorkflow: {
		{"UID", field("metadata", "uid")},
		{"NAME", field("metadata", "name")},
		{"CREATED", age("metadata", "created_at")},
	},
	model.KindWorkflowRun: {
		{"UID", field("uid")},
		{"NAME", field("name")},
		{"STATUS", field("state")},
		{"STARTED", age("started_at")},
		{"DURATION", runDuration},
	},
	model.KindTriggerRule: {
		{"UID", field("metadata", "uid")},
		{"NAME", field("metadata", "name")},
		{"TYPE", field("spec", "type")},
		{"CREATED", age("metadata", "created_at")},
	},
	model.KindConfig: {
		{"UID", field("metadata", "uid")},
		{"NAME", field("metadata", "name")},
		{"TYPE", field("spec", "selector", "type")},
		{"CREATED", age("metadata", "created_at")},
	},
	model.KindPlugin: {
		{"NAME", field("name")},
		{"MODULE", field("module")},
		{"VERSION", field("metadata", "version")},
	},
}

// Table prints resources of kind as aligned columns.
func (p *Printer) Table(kind model.Kind, resources []value.Value) error {
	cols, ok := tableColumns[kind]
	if !ok {
		return &model.KindError{Input: kind.String()}
	}
	tw := tabwriter.NewWriter(p.Out, 0, 4, 3, ' ', 0)
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.header
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, r := range resources {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = c.cell(p, r)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// parseTime reads ISO 8601 timestamps; values without a zone are UTC.
func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
