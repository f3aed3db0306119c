package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ucg-lang/ucg/internal/value"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.ucg>",
	Short: "Dump a file's reduced let bindings, out value, and import graph as YAML",
	Long: "inspect is a CLI debugging aid distinct from 'out': it renders the " +
		"evaluator's reduced value tree for a file without requiring a " +
		"registered converter, to help a project author see what a build " +
		"would actually emit, along with the import graph the source " +
		"registry observed while evaluating it.",
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	d := newDriver()
	report, err := d.RunTest(args[0])
	if err != nil {
		return err
	}

	dump := map[string]interface{}{}
	lets := map[string]interface{}{}
	for _, l := range report.Lets {
		lets[l.Name] = yamlValue(l.Value)
	}
	dump["lets"] = lets
	if report.Out != nil {
		dump["out"] = map[string]interface{}{
			"converter": report.Out.Converter,
			"value":     yamlValue(report.Out.Value),
		}
	}
	if graph := d.ImportGraph(); len(graph) > 0 {
		dump["imports"] = graph
	}

	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(dump)
}

// yamlValue converts a reduced value.Value into plain Go data (map/slice/
// scalar) that gopkg.in/yaml.v3 can render, mirroring the canonical literal
// form spec §4.4's format operator uses for nested values.
func yamlValue(v value.Value) interface{} {
	switch t := v.(type) {
	case value.Int:
		return t.Value
	case value.Float:
		return t.Value
	case value.Str:
		return t.Value
	case value.Bool:
		return t.Value
	case value.Null:
		return nil
	case value.List:
		out := make([]interface{}, len(t.Elements))
		for i, el := range t.Elements {
			out[i] = yamlValue(el)
		}
		return out
	case value.Tuple:
		out := map[string]interface{}{}
		for _, name := range t.Order {
			out[name] = yamlValue(t.Fields[name])
		}
		return out
	case value.Func, value.Module:
		return fmt.Sprintf("%s", v)
	default:
		return nil
	}
}
