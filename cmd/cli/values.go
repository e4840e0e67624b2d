package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// parseValue decodes a command line JSON value. Numbers stay json.Number so
// integers keep their exact digits.
func parseValue(raw string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, errors.Wrapf(err, "value %q is not valid JSON", raw)
	}

	if dec.More() {
		return nil, errors.Errorf("value %q has trailing data", raw)
	}

	return value, nil
}

func printValue(out io.Writer, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "fail to print value of type %T", value)
	}

	_, err = fmt.Fprintln(out, string(data))
	return err
}
