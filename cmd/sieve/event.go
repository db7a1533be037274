package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bamsammich/sieve/internal/item"
	"github.com/bamsammich/sieve/internal/persist"
)

func newEventCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage named date ranges used as target folders",
	}

	add := &cobra.Command{
		Use:   "add DIR NAME START [END]",
		Short: "Add an event; END defaults to START",
		Long: `Add an event to DIR. Dates are written as 2006-01-02 or 2.1.2006.
Items taken within the range are filed into a folder named after the event.`,
		Args: cobra.RangeArgs(3, 4),
	}
	addFlags := addScanFlags(add)
	add.RunE = func(cmd *cobra.Command, args []string) error {
		end := args[2]
		if len(args) == 4 {
			end = args[3]
		}
		ev, err := item.NewEvent(args[1], args[2], end)
		if err != nil {
			return fmt.Errorf("event %q: %w", args[1], err)
		}
		list, err := a.synchronize(ctx, cmd, addFlags, args[0], nil, true)
		if err != nil {
			return err
		}
		for _, e := range list.Events {
			if e.Name == ev.Name {
				return fmt.Errorf("event %q already exists", ev.Name)
			}
		}
		list.AddEvent(ev)
		if err := persist.Save(list); err != nil {
			return err
		}
		a.reporter().Events(list)
		return nil
	}

	ls := &cobra.Command{
		Use:   "list DIR",
		Short: "List events",
		Args:  cobra.ExactArgs(1),
	}
	lsFlags := addScanFlags(ls)
	ls.RunE = func(cmd *cobra.Command, args []string) error {
		list, err := a.synchronize(ctx, cmd, lsFlags, args[0], nil, true)
		if err != nil {
			return err
		}
		a.reporter().Events(list)
		return nil
	}

	rm := &cobra.Command{
		Use:   "rm DIR NAME",
		Short: "Remove an event",
		Args:  cobra.ExactArgs(2),
	}
	rmFlags := addScanFlags(rm)
	rm.RunE = func(cmd *cobra.Command, args []string) error {
		list, err := a.synchronize(ctx, cmd, rmFlags, args[0], nil, true)
		if err != nil {
			return err
		}
		if !list.RemoveEvent(args[1]) {
			return fmt.Errorf("no event named %q", args[1])
		}
		if err := persist.Save(list); err != nil {
			return err
		}
		a.reporter().Events(list)
		return nil
	}

	cmd.AddCommand(add, ls, rm)
	return cmd
}
