package luadata

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// EncodeJSON writes the value sequence as one JSON array. An indent of
// zero produces compact output.
func EncodeJSON(w io.Writer, values []Value, indent int) error {
	seq := values
	if seq == nil {
		seq = []Value{}
	}

	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(seq, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(seq)
	}

	if err != nil {
		return WrapError(err)
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// EncodeYAML writes the value sequence as a YAML document. Map-shaped
// tables are emitted through yaml.MapSlice so entry order survives.
func EncodeYAML(w io.Writer, values []Value, indent int) error {
	native := make([]any, 0, len(values))
	for _, v := range values {
		native = append(native, v.toNative())
	}

	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalWithOptions(native, opts...)
	if err != nil {
		return WrapError(err)
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// toNative converts a Value into plain Go data for encoders that cannot
// consume the Value model directly. Tables become yaml.MapSlice to keep
// insertion order.
func (v Value) toNative() any {
	switch v.Kind {
	case KindNil:
		return nil

	case KindBool:
		return v.Bool

	case KindInt:
		return v.Int

	case KindFloat:
		return v.Float

	case KindString, KindOpaque:
		return v.Str

	case KindArray:
		items := make([]any, 0, len(v.Items))
		for _, item := range v.Items {
			items = append(items, item.toNative())
		}

		return items

	case KindTable:
		slice := make(yaml.MapSlice, 0, len(v.Entries))
		for _, entry := range v.Entries {
			slice = append(slice, yaml.MapItem{
				Key:   entry.Key,
				Value: entry.Value.toNative(),
			})
		}

		return slice

	case KindDiagnostic:
		return yaml.MapSlice{
			{Key: "raw", Value: v.Raw},
			{Key: "error", Value: v.Err},
		}

	default:
		return nil
	}
}
