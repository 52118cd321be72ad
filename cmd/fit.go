package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/CraigKelly/logitmc/mle"
	"github.com/CraigKelly/logitmc/model"
	"github.com/CraigKelly/logitmc/sampler"
)

var inputFile string
var useMonitor bool
var monitorAddr string
var diagWindow int

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit a multinomial-logit model to a choice CSV by MLE and MCMC",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFit()
	},
}

func init() {
	fitCmd.Flags().StringVarP(&inputFile, "input", "i", "", "choice CSV file to read")
	fitCmd.Flags().BoolVar(&useMonitor, "monitor", false, "serve expvar progress over HTTP during the chain")
	fitCmd.Flags().StringVar(&monitorAddr, "monitor-addr", ":8000", "address for the progress monitor")
	fitCmd.Flags().IntVar(&diagWindow, "diag-window", 2000, "split-window size for the convergence diagnostic")
	fitCmd.MarkFlagRequired("input")
}

func runFit() error {
	f, err := os.Open(inputFile)
	if err != nil {
		return errors.Wrapf(err, "could not open %s", inputFile)
	}
	defer f.Close()

	recs, names, err := model.ReadRecords(f)
	if err != nil {
		return err
	}

	ds, err := model.NewChoiceDataset(recs, names)
	if err != nil {
		return err
	}
	chat("Dataset: %d tasks, %d coefficients\n", ds.NumTasks(), ds.NumCoef())

	rc, err := loadRunConfig(cfgFile, names)
	if err != nil {
		return err
	}

	// MLE first: it is quick and its table anchors the comparison
	fit, err := mle.Fit(ds, nil)
	if err != nil {
		return err
	}
	fmt.Println(fit)

	prior, err := model.NewGaussianPrior(rc.PriorVariances)
	if err != nil {
		return err
	}

	cfg := rc.samplerConfig()

	var mon monitor
	if useMonitor {
		if err := mon.Start(monitorAddr); err != nil {
			return err
		}
		defer mon.Stop()

		mon.Iterations.Set(int64(cfg.Iterations))
		mon.BurnIn.Set(int64(cfg.BurnIn))

		began := time.Now()
		accepted := 0
		cfg.OnIteration = func(iter int, ok bool) {
			if ok {
				accepted++
			}
			mon.Completed.Set(int64(iter + 1))
			mon.Accepted.Set(int64(accepted))
			mon.AcceptanceRate.Set(float64(accepted) / float64(iter+1))
			mon.RunTime.Set(time.Since(began).Seconds())
		}
	}

	m, err := sampler.NewMetropolis(model.NewUtilityModel(ds), prior, cfg)
	if err != nil {
		return err
	}

	// Ctrl-C stops the chain between iterations
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	began := time.Now()
	tr, err := m.Run(ctx)
	if err != nil {
		return err
	}
	chat("Chain of %d iterations in %v (acceptance rate %.3f)\n",
		tr.Len(), time.Since(began), m.AcceptanceRate())

	s, err := sampler.NewSummary(tr, cfg.BurnIn)
	if err != nil {
		return err
	}
	fmt.Println(s)

	conv, err := sampler.CheckConvergence(tr, cfg.BurnIn, diagWindow)
	if err != nil {
		return err
	}
	for _, c := range conv {
		flag := "ok"
		if !c.OK {
			flag = "DRIFTING"
		}
		fmt.Printf("split-window z %-12s %8.3f  %s\n", c.Name, c.Z, flag)
	}
	fmt.Println()

	table, err := mle.Comparison(fit, s)
	if err != nil {
		return err
	}
	fmt.Println(table)

	return nil
}
