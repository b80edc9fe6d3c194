package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/modelmesh-lang/modelmesh/pkg/ecore"
	"github.com/modelmesh-lang/modelmesh/pkg/runtime"
	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

var (
	fakeOutput    string
	fakeCompanies int
	fakePersons   int
)

func init() {
	fakeCmd.Flags().StringVarP(&fakeOutput, "output", "o", "model.yaml", "output file")
	fakeCmd.Flags().IntVarP(&fakeCompanies, "companies", "c", 1, "number of companies")
	fakeCmd.Flags().IntVarP(&fakePersons, "persons", "p", 5, "number of persons per company")
}

var fakeCmd = &cobra.Command{
	Use:   "fake",
	Short: "Generate random model files",
	Long: `Generates a model file with a random company/person object graph,
usable as test data for the resource layer and the other mctl
commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var objs []ecore.Object

		for i := 0; i < fakeCompanies; i++ {
			company := ecore.NewObject("Company")
			company.Set("name", value.String(randomName()))

			var employees []value.ObjectId
			for j := 0; j < fakePersons; j++ {
				person := ecore.NewObject("Person")
				person.Set("name", value.String(randomName()))
				person.Set("age", value.Int(18+rand.Intn(50)))
				person.Set("employer", value.NewRef(company.GetId()))
				employees = append(employees, person.GetId())
				objs = append(objs, person)
			}
			if len(employees) > 0 {
				company.Set("employees", value.NewRefList(employees...))
				company.Set("ceo", value.NewRef(employees[rand.Intn(len(employees))]))
			}
			objs = append(objs, company)
		}

		data, err := runtime.NewYAMLEncoding().Encode(objs)
		if err != nil {
			return err
		}
		return os.WriteFile(fakeOutput, data, 0o644)
	},
}

var nameAdjectives = []string{
	"ancient", "bold", "calm", "dark", "eager", "fancy", "gentle",
	"hidden", "icy", "jolly", "keen", "lively", "misty", "noble",
}

var nameNouns = []string{
	"aurora", "breeze", "cliff", "dawn", "ember", "forest", "grove",
	"harbor", "island", "juniper", "lake", "meadow", "night", "oak",
}

func randomName() string {
	return fmt.Sprintf("%s-%s",
		nameAdjectives[rand.Intn(len(nameAdjectives))],
		nameNouns[rand.Intn(len(nameNouns))])
}
