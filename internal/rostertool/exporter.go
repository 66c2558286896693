package rostertool

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/roster"
)

const (
	// ExportFormatCSV writes the roster with the configured delimiter, quoting and encoding.
	ExportFormatCSV = "csv"
	// ExportFormatYAML writes a sequence of column to value mappings.
	ExportFormatYAML = "yaml"

	yamlStringTagConstant           = "!!str"
	yamlEncodeErrorTemplateConstant = "unable to encode roster as YAML: %w"
	yamlCloseErrorTemplateConstant  = "unable to finish YAML document: %w"
	yamlIndentationConstant         = 2
)

// ExportFormats lists the supported export formats, default first.
var ExportFormats = []string{ExportFormatCSV, ExportFormatYAML}

// Exporter writes a roster in one of the ExportFormats.
type Exporter struct {
	schema roster.Schema
	format roster.Format
}

// NewExporter constructs an Exporter for rosters read with schema and format.
func NewExporter(schema roster.Schema, format roster.Format) *Exporter {
	return &Exporter{schema: schema, format: format}
}

// Export writes userRoster to destination in exportFormat.
func (exporter *Exporter) Export(destination io.Writer, userRoster roster.Roster, exportFormat string) error {
	switch exportFormat {
	case ExportFormatYAML:
		return exporter.exportYAML(destination, userRoster)
	default:
		return roster.NewWriter(exporter.schema, exporter.format).Write(destination, userRoster.Users())
	}
}

// exportYAML builds the document node by node so columns keep schema order.
func (exporter *Exporter) exportYAML(destination io.Writer, userRoster roster.Roster) error {
	sequenceNode := &yaml.Node{Kind: yaml.SequenceNode}
	columns := exporter.schema.Columns()
	for _, user := range userRoster.Users() {
		mappingNode := &yaml.Node{Kind: yaml.MappingNode}
		values := user.Values()
		for columnIndex, column := range columns {
			mappingNode.Content = append(mappingNode.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: yamlStringTagConstant, Value: column},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: yamlStringTagConstant, Value: values[columnIndex]},
			)
		}
		sequenceNode.Content = append(sequenceNode.Content, mappingNode)
	}

	encoder := yaml.NewEncoder(destination)
	encoder.SetIndent(yamlIndentationConstant)
	if encodeError := encoder.Encode(sequenceNode); encodeError != nil {
		return fmt.Errorf(yamlEncodeErrorTemplateConstant, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(yamlCloseErrorTemplateConstant, closeError)
	}
	return nil
}
