package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/surveykit/tablepipe/pkg/table"
	"github.com/surveykit/tablepipe/pkg/tabio"
)

// Get an expected flag, or panic if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected string flag, or panic if an error arises.
func getString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected string-slice flag, or panic if an error arises.
func getStringSlice(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringSlice(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected uint flag, or panic if an error arises.
func getUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// ioOptions assembles tabio options from the shared --delimiter flag.
func ioOptions(cmd *cobra.Command) tabio.Options {
	var opts tabio.Options
	//
	if delim := getString(cmd, "delimiter"); delim != "" {
		runes := []rune(delim)
		//
		if len(runes) != 1 {
			fmt.Printf("delimiter must be a single character, not %q\n", delim)
			os.Exit(2)
		}
		//
		opts.Delimiter = runes[0]
	}
	//
	return opts
}

// readTable loads a table file, resolving its format from the extension,
// exiting on failure.
func readTable(filename string, opts tabio.Options) *table.Table {
	t, err := tabio.Load(filename, opts)
	// Handle error
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return t
}

// writeTable saves a table file, resolving its format from the extension,
// exiting on failure.
func writeTable(t *table.Table, filename string, opts tabio.Options) {
	if err := tabio.Save(t, filename, opts); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
}
