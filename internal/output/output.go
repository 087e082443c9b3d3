// Package output writes evaluated values as text, JSON or YAML.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

// Format represents the output format type.
type Format string

const (
	// FormatText prints primitives bare and everything else as JSON.
	FormatText Format = "text"
	// FormatJSON outputs values in JSON format.
	FormatJSON Format = "json"
	// FormatYAML outputs values in YAML format.
	FormatYAML Format = "yaml"
)

// IsUnknown reports whether f is not a supported format.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return false
	default:
		return true
	}
}

// SupportedFormats returns a list of all supported output formats.
func SupportedFormats() []string {
	return []string{
		string(FormatText),
		string(FormatJSON),
		string(FormatYAML),
	}
}

// ParseFormat converts s into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", s)
	}
	return f, nil
}

// Writer serializes cty values to an io.Writer.
type Writer struct {
	format Format
	output io.Writer
}

// NewWriter creates a Writer for format.
func NewWriter(format Format, output io.Writer) *Writer {
	return &Writer{format: format, output: output}
}

// Write serializes val followed by a newline.
func (w *Writer) Write(val cty.Value) error {
	if !val.IsWhollyKnown() {
		return fmt.Errorf("cannot serialize a value that is not fully known")
	}

	switch w.format {
	case FormatText:
		return w.writeText(val)
	case FormatJSON:
		return w.writeJSON(val)
	case FormatYAML:
		return w.writeYAML(val)
	default:
		return fmt.Errorf("unsupported format: %s", w.format)
	}
}

func (w *Writer) writeText(val cty.Value) error {
	if val.IsNull() {
		_, err := fmt.Fprintln(w.output, "null")
		return err
	}
	switch val.Type() {
	case cty.String:
		_, err := fmt.Fprintln(w.output, val.AsString())
		return err
	case cty.Number:
		_, err := fmt.Fprintln(w.output, val.AsBigFloat().Text('f', -1))
		return err
	case cty.Bool:
		_, err := fmt.Fprintln(w.output, val.True())
		return err
	}
	return w.writeJSON(val)
}

func (w *Writer) writeJSON(val cty.Value) error {
	raw, err := marshalJSON(val)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to serialize to JSON: %w", err)
	}
	buf.WriteByte('\n')
	_, err = w.output.Write(buf.Bytes())
	return err
}

func (w *Writer) writeYAML(val cty.Value) error {
	node, err := yamlNode(val)
	if err != nil {
		return fmt.Errorf("failed to serialize to YAML: %w", err)
	}

	encoder := yaml.NewEncoder(w.output)
	encoder.SetIndent(2)
	if err := encoder.Encode(node); err != nil {
		return fmt.Errorf("failed to serialize to YAML: %w", err)
	}
	return encoder.Close()
}

// yamlNode builds the YAML tree straight from val so numbers keep their
// full precision.
func yamlNode(val cty.Value) (*yaml.Node, error) {
	if val.IsNull() {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: val.AsString()}, nil
	case ty == cty.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(val.True())}, nil
	case ty == cty.Number:
		return numberNode(val.AsBigFloat()), nil
	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			child, err := yamlNode(elem)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, child)
		}
		return seq, nil
	case ty.IsMapType() || ty.IsObjectType():
		// Both iterate in lexical key order.
		mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for it := val.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			child, err := yamlNode(elem)
			if err != nil {
				return nil, err
			}
			mapping.Content = append(mapping.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key.AsString()},
				child,
			)
		}
		return mapping, nil
	default:
		return nil, fmt.Errorf("unsupported type %s", ty.FriendlyName())
	}
}

func numberNode(bf *big.Float) *yaml.Node {
	switch {
	case bf.IsInf() && bf.Sign() > 0:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: ".inf"}
	case bf.IsInf():
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: "-.inf"}
	case bf.IsInt():
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: bf.Text('f', -1)}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: bf.Text('f', -1)}
	}
}

// ToJSON returns val encoded as JSON without type information.
func ToJSON(val cty.Value) (json.RawMessage, error) {
	return marshalJSON(val)
}

func marshalJSON(val cty.Value) ([]byte, error) {
	raw, err := ctyjson.SimpleJSONValue{Value: val}.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize to JSON: %w", err)
	}
	return raw, nil
}
