package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Rankboard/internal/dashboard"
	"github.com/MikeSquared-Agency/Rankboard/internal/render"
	"github.com/MikeSquared-Agency/Rankboard/internal/scoring"
)

func newScoresCmd(a *app) *cobra.Command {
	var phase string
	cmd := &cobra.Command{
		Use:   "scores <run-id>",
		Short: "Show the per-criterion scores of a run, one row per product.",
		Example: `  rankctl scores 3
  rankctl scores 3 --phase two -o csv > run3.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			table, headers, err := a.svc.Scores(a.context(cmd), id)
			if err != nil {
				return err
			}
			variants := table.Variants()
			if phase != "" && phase != "all" {
				v, err := scoring.ParseVariant(phase)
				if err != nil {
					return err
				}
				variants = []scoring.Variant{v}
			}
			return render.Pivot(a.out(cmd), a.format, table, headers, variants)
		},
	}
	cmd.Flags().StringVar(&phase, "phase", "all", "score variant to show: one, two, score or all")
	return cmd
}

func newRankingCmd(a *app) *cobra.Command {
	var duplicates string
	cmd := &cobra.Command{
		Use:   "ranking <run-id>",
		Short: "Show final scores of a run, best first.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			var mode scoring.DuplicateMode
			if duplicates != "" {
				if mode, err = scoring.ParseDuplicateMode(duplicates); err != nil {
					return err
				}
			}
			entries, err := a.svc.Ranking(a.context(cmd), id, mode)
			if err != nil {
				return err
			}
			return render.Ranking(a.out(cmd), a.format, entries)
		},
	}
	cmd.Flags().StringVar(&duplicates, "duplicates", "", "duplicate final scores per product: first, latest or all (default from config)")
	return cmd
}

func newCriteriaScoresCmd(a *app) *cobra.Command {
	var recompute bool
	cmd := &cobra.Command{
		Use:   "criteria-scores",
		Short: "Show criterion scores per product.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := a.context(cmd)
			var (
				v   *dashboard.CriteriaView
				err error
			)
			if recompute {
				v, err = a.svc.RecomputeCriteriaScores(ctx)
			} else {
				v, err = a.svc.CriteriaScores(ctx)
			}
			if err != nil {
				return err
			}
			return render.Pivot(a.out(cmd), a.format, v.Scores, v.Headers, v.Scores.Variants())
		},
	}
	cmd.Flags().BoolVar(&recompute, "recompute", false, "recompute criterion scores on the backend first")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "report <run-id>",
		Short: "Show the ranked report of a run for a period.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			entries, err := a.svc.Report(a.context(cmd), id, period)
			if err != nil {
				return err
			}
			return render.Report(a.out(cmd), a.format, entries)
		},
	}
	cmd.Flags().StringVar(&period, "period", "", "report period, e.g. 2024-03")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}

func newMethodsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List scoring methods known to the backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			methods, err := a.svc.Methods(a.context(cmd))
			if err != nil {
				return err
			}
			return render.Methods(a.out(cmd), a.format, methods)
		},
	}
}

func newComputeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compute <run-id> <SMART|MOORA>",
		Short: "Run a scoring method for a run and print the new ranking.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			v, err := a.svc.Compute(a.context(cmd), id, args[1])
			if err != nil {
				return err
			}
			if v.ProcessingTime != "" {
				color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "%s finished in %s\n", args[1], v.ProcessingTime)
			}
			return render.Pivot(a.out(cmd), a.format, v.Scores, v.Headers, v.Variants)
		},
	}
}

func newFinalizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "finalize <run-id>",
		Short: "Save the final scores of a run and print the ranking.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			v, err := a.svc.Finalize(a.context(cmd), id)
			if err != nil {
				return err
			}
			return render.Ranking(a.out(cmd), a.format, v.Ranking)
		},
	}
}
