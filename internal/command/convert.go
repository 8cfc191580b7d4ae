package command

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stolasapp/ende/internal/convert"
	"github.com/stolasapp/ende/internal/detect"
)

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "list [encode|decode]",
		Short:     "List available converters",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(convert.Encode), string(convert.Decode)},
		RunE: func(cmd *cobra.Command, args []string) error {
			groups := convert.Groups()
			if len(args) == 1 {
				group, err := convert.ParseGroup(args[0])
				if err != nil {
					return err
				}
				groups = []convert.Group{group}
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0) //nolint:mnd // column layout
			for _, group := range groups {
				for _, conv := range convert.List(group) {
					if _, err := fmt.Fprintf(w, "%s\t%s\n", conv.Ref(), conv.Name); err != nil {
						return err
					}
				}
			}
			return w.Flush()
		},
	}
}

func forgeCommand() *cobra.Command {
	var input inputFlags
	cmd := &cobra.Command{
		Use:   "forge STEP...",
		Short: "Apply a flow of converters to the input",
		Long: "Applies each step to the output of the previous one, in order. Steps are\n" +
			"converter references, either group/id or a bare id. If any step fails,\n" +
			"\"" + convert.Sentinel + "\" is printed and the command fails.\n\n" +
			"Input is used byte for byte, so text piped from echo keeps its trailing\n" +
			"newline; pass --trim to drop it.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			flow, err := convert.ParseFlow(args...)
			if err != nil {
				return err
			}
			text, err := input.read(cmd, logger)
			if err != nil {
				return err
			}
			out, err := convert.Run(text, flow)
			if err != nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), convert.Sentinel)
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	input.bind(cmd, "input")
	return cmd
}

func detectCommand() *cobra.Command {
	var input inputFlags
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect the format of the input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			text, err := input.read(cmd, logger)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), detect.Detect(text))
			return err
		},
	}
	input.bind(cmd, "content")
	return cmd
}

func labelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "List the labels detect can report, in rule order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, label := range detect.Labels() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), label); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
