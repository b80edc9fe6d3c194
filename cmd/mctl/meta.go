package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

var metaLenient bool

func init() {
	metaCmd.Flags().BoolVarP(&metaLenient, "lenient", "l", false, "skip unresolvable elements")
}

var metaCmd = &cobra.Command{
	Use:   "meta [package id]",
	Short: "Reconstruct a metamodel package from a model file",
	Long: `The object with the given id (or the first root object, if no id is
given) is taken as a serialized EPackage and reconstructed into a
fully-linked metamodel, which is printed in a readable form.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadResource()
		if err != nil {
			return err
		}

		var id value.ObjectId
		switch len(args) {
		case 0:
			o := r.ResolveByPath("/")
			if o == nil {
				return fmt.Errorf("model file has no root object")
			}
			id = o.GetId()
		case 1:
			var ok bool
			id, ok = value.ParseId(args[0])
			if !ok {
				return fmt.Errorf("invalid object id %q", args[0])
			}
		default:
			return fmt.Errorf("at most one package id possible")
		}

		p, err := r.CreateEPackage(id, metaLenient)
		if err != nil {
			return err
		}
		p.Dump(cmd.OutOrStdout())
		return nil
	},
}
