package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	ui "github.com/atdiar/entityui"
	"gopkg.in/yaml.v3"
)

var defaultProps = ui.Props{
	"title": "entityui",
	"items": []any{"diff", "patch", "commit"},
}

// decodeProps reads props from YAML. JSON being YAML, it reads JSON too.
func decodeProps(r io.Reader) (ui.Props, error) {
	var props ui.Props
	if err := yaml.NewDecoder(r).Decode(&props); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding props: %w", err)
	}
	return ui.MergeProps(defaultProps, props), nil
}

func loadProps(path string) (ui.Props, error) {
	if path == "" {
		return ui.MergeProps(defaultProps), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeProps(bytes.NewReader(b))
}
