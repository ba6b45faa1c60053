package presentation

import (
	"encoding/json"
	"io"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatComponents formats a component listing as JSON
func (f *Formatter) FormatComponents(components []ComponentDTO) error {
	return f.encode(components)
}

// FormatLinks formats a descriptor's links as JSON
func (f *Formatter) FormatLinks(links LinksDTO) error {
	return f.encode(links)
}

// FormatResolved formats resolved targets as JSON
func (f *Formatter) FormatResolved(resolved []ResolvedDTO) error {
	return f.encode(resolved)
}

// FormatJSON formats any value as indented JSON
func (f *Formatter) FormatJSON(v any) error {
	return f.encode(v)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
