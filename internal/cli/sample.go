package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/errors"
	"github.com/matzehuels/ddcharts/pkg/message"
)

// sampleCommand prints the built-in dataset for a chart kind as a host
// message, ready to pipe into render or POST to a server.
func (c *CLI) sampleCommand() *cobra.Command {
	var (
		kind    = string(layout.KindBar)
		name    = "Sample"
		output  string
		request bool
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print the sample dataset as a host message",
		Long: `Sample prints the built-in dataset for a chart kind as a live message with
its columns and rows spelled out. With --request it prints the short message
that asks a renderer to draw the sample itself (availableRowCount -1).`,
		Example: `  ddcharts sample --kind line > line.json
  ddcharts sample --request | curl -d @- localhost:8080/charts/bar/messages`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := layout.ParseKind(kind)
			if err != nil {
				return err
			}

			msg := message.SampleRequest(name)
			if !request {
				table, err := message.Sample(k)
				if err != nil {
					return err
				}
				msg = message.FromTable(name, table)
			}

			data, err := json.MarshalIndent(msg, "", "  ")
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "encode message")
			}
			data = append(data, '\n')

			if output == "" || output == stdio {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
			}
			c.Logger.Infof("Wrote %s sample to %s", k, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", kind, "chart kind: bar, line")
	cmd.Flags().StringVar(&name, "name", name, "result name carried in the message")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&request, "request", false, "print a sample request instead of the dataset")

	return cmd
}
