package command

import (
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/stolasapp/ende/internal/convert"
	"github.com/stolasapp/ende/internal/pagination"
	"github.com/stolasapp/ende/internal/storage"
)

func flowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Saved flow commands",
	}
	cmd.AddCommand(
		flowSaveCommand(),
		flowListCommand(),
		flowShowCommand(),
		flowRunCommand(),
		flowDeleteCommand(),
	)
	return cmd
}

func flowSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save NAME STEP...",
		Short: "Save a flow",
		Long:  "Creates the named flow, or replaces the steps of an existing one.",
		Args:  cobra.MinimumNArgs(2), //nolint:mnd // name and one step
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			_, logger, store, err := loadStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore(store, &runErr)

			flow, err := store.UpsertFlow(cmd.Context(), storage.SavedFlow{
				Name:  args[0],
				Steps: args[1:],
			})
			if err != nil {
				return err
			}
			logger.InfoContext(cmd.Context(), "saved flow",
				slog.String("name", flow.Name),
				slog.Any("steps", flow.Steps))
			return nil
		},
	}
}

func flowListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved flows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			_, _, store, err := loadStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore(store, &runErr)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0) //nolint:mnd // column layout
			after := ""
			for {
				flows, err := store.ListFlows(cmd.Context(), after, pagination.MaxPageSize)
				if err != nil {
					return err
				}
				for _, flow := range flows {
					if _, err = fmt.Fprintf(w, "%s\t%s\n", flow.Name, strings.Join(flow.Steps, " ")); err != nil {
						return err
					}
				}
				if len(flows) < pagination.MaxPageSize {
					break
				}
				after = flows[len(flows)-1].Name
			}
			return w.Flush()
		},
	}
}

func flowShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show a saved flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			_, _, store, err := loadStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore(store, &runErr)

			flow, err := store.GetFlow(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, err = fmt.Fprintf(out, "name:    %s\nid:      %d\ncreated: %s\nupdated: %s\nsteps:\n",
				flow.Name, flow.ID,
				flow.CreateTime.Format(time.RFC3339), flow.UpdateTime.Format(time.RFC3339))
			if err != nil {
				return err
			}
			for i, ref := range flow.Steps {
				if _, err = fmt.Fprintf(out, "  %d. %s\n", i+1, ref); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func flowRunCommand() *cobra.Command {
	var input inputFlags
	cmd := &cobra.Command{
		Use:   "run NAME",
		Short: "Apply a saved flow to the input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			_, logger, store, err := loadStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore(store, &runErr)

			saved, err := store.GetFlow(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			flow, err := convert.ParseFlow(saved.Steps...)
			if err != nil {
				return fmt.Errorf("saved flow %q is no longer valid: %w", saved.Name, err)
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

func flowDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a saved flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			_, logger, store, err := loadStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore(store, &runErr)

			name := args[0]
			logger = logger.With(slog.String("name", name))
			if _, err = store.GetFlow(cmd.Context(), name); err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(cmd, "Are you sure you want to delete this flow?")
				if err != nil || !ok {
					logger.InfoContext(cmd.Context(), "aborted flow deletion")
					return err
				}
			}
			if err = store.DeleteFlow(cmd.Context(), name); err != nil {
				return err
			}
			logger.InfoContext(cmd.Context(), "flow deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
