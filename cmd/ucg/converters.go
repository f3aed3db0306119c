package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var convertersCmd = &cobra.Command{
	Use:   "converters",
	Short: "List registered output converters",
	Args:  cobra.NoArgs,
	RunE:  runConverters,
}

func runConverters(cmd *cobra.Command, args []string) error {
	names := converters.Names()
	if len(names) == 0 {
		fmt.Println("(no converters registered)")
		return nil
	}
	for _, name := range names {
		conv, _ := converters.Lookup(name)
		fmt.Printf("%s\t%s\n", bold(name), conv.Extension())
	}
	return nil
}
