package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xavierca1/woo-crm/internal/usecase"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or flush the shipping quote cache",
}

var cacheFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Delete every cached shipping quote",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(false)
		if err != nil {
			return err
		}
		defer e.close()

		store, err := e.cacheStore()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		n, err := store.DeletePrefix(ctx, usecase.QuoteCachePrefix)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "flushed %d entries\n", n)
		return nil
	},
}

var cacheGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a raw cache entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(false)
		if err != nil {
			return err
		}
		defer e.close()

		store, err := e.cacheStore()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		v, ok, err := store.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("key %q not found", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(v))
		return nil
	},
}
