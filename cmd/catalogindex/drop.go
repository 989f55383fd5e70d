package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDropCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "drop",
		Short: "Drop the catalog index (stored hashes are kept)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.writer.Drop(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dropped index %s\n", s.cfg.VectorStore.IndexName)
			return nil
		},
	}
}
