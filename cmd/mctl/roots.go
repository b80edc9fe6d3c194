package main

import (
	"github.com/spf13/cobra"
)

var rootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "List the root objects of a model file",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadResource()
		if err != nil {
			return err
		}
		roots := r.GetRootObjects()
		return printObjectList(cmd.OutOrStdout(), roots, rootIds(roots))
	},
}
