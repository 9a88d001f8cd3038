package options

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// OutputOptions
type OutputOptions struct {
	JSON   bool
	ShowID bool
}

func AddOutputArgs(cmd *cobra.Command, o *OutputOptions) {
	cmd.Flags().BoolVar(&o.JSON, "json", false,
		"Output as JSON.")
	cmd.Flags().BoolVar(&o.ShowID, "id", false,
		"Show activity IDs.")
}

// HandleError reports err as {"error": ...} on w when JSON output was
// requested, so scripts always get parseable output. A nil w means stdout.
func (o *OutputOptions) HandleError(w io.Writer, err error) error {
	if o.JSON && err != nil {
		b, merr := json.Marshal(map[string]string{
			"error": err.Error(),
		})
		if merr != nil {
			return merr
		}
		if w == nil {
			w = color.Output
		}
		_, _ = fmt.Fprintln(w, string(b))
		return nil
	}
	return err
}
