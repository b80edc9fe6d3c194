package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/modelmesh-lang/modelmesh/pkg/ecore"
	"github.com/modelmesh-lang/modelmesh/pkg/runtime"
	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

var (
	getClass  string
	getOutput string
)

func init() {
	getCmd.Flags().StringVarP(&getClass, "class", "c", "", "restrict listing to a class")
	getCmd.Flags().StringVarP(&getOutput, "output", "o", "", "output format (yaml)")
}

var getCmd = &cobra.Command{
	Use:   "get [id|path...]",
	Short: "Get objects from a model file",
	Long: `Without arguments all objects of the model file are listed,
optionally restricted to instances of a class. Arguments are resolved
as object ids or content paths.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadResource()
		if err != nil {
			return err
		}

		var list []ecore.Object
		if len(args) == 0 {
			if getClass != "" {
				list = r.GetAllInstancesOf(getClass)
			} else {
				list = r.GetAllObjects()
			}
		} else {
			for _, arg := range args {
				o := r.ResolveByPath(arg)
				if o == nil {
					return fmt.Errorf("no object for %q", arg)
				}
				list = append(list, o)
			}
		}

		switch strings.ToLower(strings.TrimSpace(getOutput)) {
		case "":
			roots := rootIds(r.GetRootObjects())
			return printObjectList(cmd.OutOrStdout(), list, roots)
		case "yaml":
			table := runtime.ObjectTable{}
			for _, o := range list {
				table.Objects = append(table.Objects, *runtime.EncodeObject(o))
			}
			data, err := yaml.Marshal(&table)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s", string(data))
			return nil
		}
		return fmt.Errorf("unknown output format %q", getOutput)
	},
}

func rootIds(roots []ecore.Object) []value.ObjectId {
	var ids []value.ObjectId
	for _, o := range roots {
		ids = append(ids, o.GetId())
	}
	return ids
}

func printObjectList(w io.Writer, list []ecore.Object, roots []value.ObjectId) error {
	if len(list) == 0 {
		fmt.Fprintf(w, "no objects found\n")
		return nil
	}
	columns := []string{"ID", "CLASS", "ROOT", "FEATURES"}

	var rows [][]string
	for _, o := range list {
		root := ""
		if slices.Contains(roots, o.GetId()) {
			root = "*"
		}
		rows = append(rows, []string{
			o.GetId().String(), o.GetClassName(), root, strings.Join(o.FeatureNames(), ","),
		})
	}

	widths := make([]int, len(columns))
	for i, s := range columns {
		widths[i] = len(s)
	}
	for _, cols := range rows {
		for i, s := range cols {
			if widths[i] < len(s) {
				widths[i] = len(s)
			}
		}
	}

	f := formatString(widths)
	header := color.New(color.Bold)
	header.Fprintln(w, formatLine(columns, f))
	for _, cols := range rows {
		fmt.Fprintln(w, formatLine(cols, f))
	}
	return nil
}

func formatLine(cols []string, msg string) string {
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = c
	}
	return strings.TrimRight(fmt.Sprintf(msg, args...), " ")
}

func formatString(widths []int) string {
	msg := ""
	for _, l := range widths {
		msg += fmt.Sprintf("%%-%ds ", l)
	}
	return msg[:len(msg)-1]
}
