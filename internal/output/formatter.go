package output

import (
	"fmt"
	"io"
	"sort"
)

// Formatter renders a report into bytes
type Formatter interface {
	Name() string
	Format(report *Report) ([]byte, error)
}

// FormatterFunc adapts a plain function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(report *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *Report) ([]byte, error) { return f.F(report) }

// Registry looks formatters up by name
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[string]Formatter)}
}

// Register adds a formatter, replacing any with the same name
func (r *Registry) Register(f Formatter) {
	r.formatters[f.Name()] = f
}

// Get returns the formatter registered under name
func (r *Registry) Get(name string) (Formatter, bool) {
	f, ok := r.formatters[name]
	return f, ok
}

// Names returns the registered formatter names sorted alphabetically
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns the console, summary and JSON formatters
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(ConsoleFormatter{YearStep: 5})
	r.Register(SummaryFormatter{})
	r.Register(JSONFormatter{Pretty: true})
	return r
}

// Write formats the report and writes it to w
func Write(w io.Writer, f Formatter, report *Report) error {
	if report == nil {
		return fmt.Errorf("nil report")
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}
