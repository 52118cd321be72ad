package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/CraigKelly/logitmc/model"
	"github.com/CraigKelly/logitmc/rand"
	"github.com/CraigKelly/logitmc/sampler"
)

var simOutFile string
var simTasks int
var simSeed int64
var simBeta []float64

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Write a synthetic conjoint choice CSV from a known coefficient vector",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimulate()
	},
}

func init() {
	simulateCmd.Flags().StringVarP(&simOutFile, "out", "o", "", "output CSV file")
	simulateCmd.Flags().IntVarP(&simTasks, "tasks", "t", 1000, "number of choice tasks to simulate")
	simulateCmd.Flags().Int64VarP(&simSeed, "seed", "r", sampler.DefaultSeed, "random seed for the design and choices")
	simulateCmd.Flags().Float64SliceVarP(&simBeta, "beta", "b", []float64{1.0, 0.5, -0.8, -0.1},
		"true coefficients (brand_n, brand_p, ad_yes, price)")
	simulateCmd.MarkFlagRequired("out")
}

func runSimulate() error {
	if len(simBeta) != len(model.ConjointNames) {
		return errors.Errorf("beta needs %d coefficients, got %d", len(model.ConjointNames), len(simBeta))
	}
	if simTasks < 1 {
		return errors.Errorf("task count %d must be positive", simTasks)
	}

	gen := rand.NewGenerator(simSeed)
	tasks := model.NewConjointDesign(gen, simTasks)
	recs, err := model.SimulateChoices(gen, tasks, simBeta)
	if err != nil {
		return err
	}

	f, err := os.Create(simOutFile)
	if err != nil {
		return errors.Wrapf(err, "could not create %s", simOutFile)
	}
	defer f.Close()

	if err := model.WriteRecords(f, recs, model.ConjointNames); err != nil {
		return err
	}

	chat("Wrote %d records (%d tasks) to %s\n", len(recs), simTasks, simOutFile)
	return nil
}
