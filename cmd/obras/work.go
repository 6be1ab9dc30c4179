package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/lifecycle"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

const dateLayout = "2006-01-02"

func newWorkCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "work",
		Short: "Create work records and move them through their stages",
	}

	cmd.AddCommand(
		newWorkCreateCmd(opts),
		newWorkShowCmd(opts),
		newWorkListCmd(opts),
		newWorkStageCmd(opts, "project", "Move a work back to Proyecto", func(ctx context.Context, svc *lifecycle.Service, w *model.WorkRecord) error {
			return svc.NewProject(ctx, w)
		}),
		newWorkContractCmd(opts),
		newWorkAwardCmd(opts),
		newWorkExecuteCmd(opts),
		newWorkProgressCmd(opts),
		newWorkIncrementCmd(opts, "extend", "Extend the term by <months>", func(ctx context.Context, svc *lifecycle.Service, w *model.WorkRecord, n int64) error {
			return svc.ExtendTerm(ctx, w, n)
		}),
		newWorkIncrementCmd(opts, "workforce", "Add <headcount> workers", func(ctx context.Context, svc *lifecycle.Service, w *model.WorkRecord, n int64) error {
			return svc.AddWorkforce(ctx, w, n)
		}),
		newWorkStageCmd(opts, "finish", "Finish a work, setting progress to 100", func(ctx context.Context, svc *lifecycle.Service, w *model.WorkRecord) error {
			return svc.Finish(ctx, w)
		}),
		newWorkStageCmd(opts, "rescind", "Rescind a work", func(ctx context.Context, svc *lifecycle.Service, w *model.WorkRecord) error {
			return svc.Rescind(ctx, w)
		}),
	)
	return cmd
}

// withWork loads the record named by idArg and hands it to fn with a lifecycle service
func withWork(cmd *cobra.Command, opts *rootOptions, idArg string, fn func(a *app, svc *lifecycle.Service, w *model.WorkRecord) error) error {
	id, err := strconv.ParseInt(idArg, 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid work id %q", idArg)
	}

	return withApp(cmd.Context(), opts, func(a *app) error {
		if err := a.store.EnsureSchema(cmd.Context()); err != nil {
			return err
		}
		svc, err := lifecycle.NewService(a.store, a.logger)
		if err != nil {
			return err
		}
		w, err := a.store.GetWork(cmd.Context(), a.store.DB(), id)
		if err != nil {
			return err
		}
		if err := fn(a, svc, w); err != nil {
			return err
		}
		printWork(cmd.OutOrStdout(), w)
		return nil
	})
}

func newWorkCreateCmd(opts *rootOptions) *cobra.Command {
	var name, workType, area, hood string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a work record in the Proyecto stage",
		Long: `Create a work record in the Proyecto stage. --type, --area and --barrio
are resolved against their catalogs by exact or unique partial match.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withApp(ctx, opts, func(a *app) error {
				if err := a.store.EnsureSchema(ctx); err != nil {
					return err
				}
				nw := lifecycle.NewWork{Name: name}
				var err error
				if nw.WorkTypeID, err = resolveRef(ctx, a.store, model.KindWorkType, workType); err != nil {
					return err
				}
				if nw.AreaID, err = resolveRef(ctx, a.store, model.KindArea, area); err != nil {
					return err
				}
				if nw.NeighborhoodID, err = resolveRef(ctx, a.store, model.KindNeighborhood, hood); err != nil {
					return err
				}

				svc, err := lifecycle.NewService(a.store, a.logger)
				if err != nil {
					return err
				}
				w, err := svc.Create(ctx, nw)
				if err != nil {
					return err
				}
				printWork(cmd.OutOrStdout(), w)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Work name")
	cmd.Flags().StringVar(&workType, "type", "", "Work type")
	cmd.Flags().StringVar(&area, "area", "", "Responsible area")
	cmd.Flags().StringVar(&hood, "barrio", "", "Neighborhood")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newWorkShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a work record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWork(cmd, opts, args[0], func(*app, *lifecycle.Service, *model.WorkRecord) error {
				return nil
			})
		},
	}
}

func newWorkListCmd(opts *rootOptions) *cobra.Command {
	var stage string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				if err := a.store.EnsureSchema(cmd.Context()); err != nil {
					return err
				}
				works, err := a.store.ListWorks(cmd.Context(), stage, limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for i := range works {
					fmt.Fprintln(out, works[i].String())
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&stage, "stage", "", "Only works in this stage")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of works, 0 for all")
	return cmd
}

func newWorkStageCmd(opts *rootOptions, use, short string, fn func(context.Context, *lifecycle.Service, *model.WorkRecord) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWork(cmd, opts, args[0], func(_ *app, svc *lifecycle.Service, w *model.WorkRecord) error {
				return fn(cmd.Context(), svc, w)
			})
		},
	}
}

func newWorkContractCmd(opts *rootOptions) *cobra.Command {
	var contractingType, number string

	cmd := &cobra.Command{
		Use:   "contract <id>",
		Short: "Start contracting, moving the work to En Licitacion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWork(cmd, opts, args[0], func(a *app, svc *lifecycle.Service, w *model.WorkRecord) error {
				typeID, err := mustResolveRef(cmd.Context(), a.store, model.KindContractingType, contractingType)
				if err != nil {
					return err
				}
				return svc.StartContracting(cmd.Context(), w, typeID, number)
			})
		},
	}

	cmd.Flags().StringVar(&contractingType, "contracting-type", "", "Contracting type")
	cmd.Flags().StringVar(&number, "number", "", "Contracting number")
	_ = cmd.MarkFlagRequired("contracting-type")
	_ = cmd.MarkFlagRequired("number")
	return cmd
}

func newWorkAwardCmd(opts *rootOptions) *cobra.Command {
	var company, fileNumber string

	cmd := &cobra.Command{
		Use:   "award <id>",
		Short: "Award the work to a company, moving it to Adjudicada",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWork(cmd, opts, args[0], func(a *app, svc *lifecycle.Service, w *model.WorkRecord) error {
				companyID, err := mustResolveRef(cmd.Context(), a.store, model.KindCompany, company)
				if err != nil {
					return err
				}
				return svc.Award(cmd.Context(), w, companyID, fileNumber)
			})
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "Awarded company")
	cmd.Flags().StringVar(&fileNumber, "file", "", "File number")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newWorkExecuteCmd(opts *rootOptions) *cobra.Command {
	var (
		featured   bool
		start, end string
		funding    string
		workforce  int64
	)

	cmd := &cobra.Command{
		Use:   "execute <id>",
		Short: "Start execution, moving the work to En Ejecucion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := time.Parse(dateLayout, start)
			if err != nil {
				return &model.ValidationError{Field: "fecha_inicio", Value: start, Reason: "expected YYYY-MM-DD"}
			}
			endDate, err := time.Parse(dateLayout, end)
			if err != nil {
				return &model.ValidationError{Field: "fecha_fin_inicial", Value: end, Reason: "expected YYYY-MM-DD"}
			}

			return withWork(cmd, opts, args[0], func(a *app, svc *lifecycle.Service, w *model.WorkRecord) error {
				fundingID, err := mustResolveRef(cmd.Context(), a.store, model.KindFundingSource, funding)
				if err != nil {
					return err
				}
				return svc.StartExecution(cmd.Context(), w, lifecycle.Execution{
					Featured:        featured,
					Start:           startDate,
					End:             endDate,
					FundingSourceID: fundingID,
					Workforce:       workforce,
				})
			})
		},
	}

	cmd.Flags().BoolVar(&featured, "featured", false, "Mark the work as featured")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Initial end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&funding, "funding", "", "Funding source")
	cmd.Flags().Int64Var(&workforce, "workforce", 0, "Initial workforce")
	for _, f := range []string{"start", "end", "funding"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newWorkProgressCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <id> <percentage>",
		Short: "Set the progress percentage (0-100)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return &model.ValidationError{Field: "porcentaje_avance", Value: args[1], Reason: "not a number"}
			}
			return withWork(cmd, opts, args[0], func(_ *app, svc *lifecycle.Service, w *model.WorkRecord) error {
				return svc.UpdateProgress(cmd.Context(), w, pct)
			})
		},
	}
}

func newWorkIncrementCmd(opts *rootOptions, use, short string, fn func(context.Context, *lifecycle.Service, *model.WorkRecord, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return &model.ValidationError{Field: use, Value: args[1], Reason: "not an integer"}
			}
			return withWork(cmd, opts, args[0], func(_ *app, svc *lifecycle.Service, w *model.WorkRecord) error {
				return fn(cmd.Context(), svc, w, n)
			})
		},
	}
}

func printWork(out io.Writer, w *model.WorkRecord) {
	fmt.Fprintln(out, w.String())
	fmt.Fprintf(out, "  Progress:   %.2f%%\n", w.Progress)
	if w.TermMonths != nil {
		fmt.Fprintf(out, "  Term:       %d months\n", *w.TermMonths)
	}
	if w.Workforce != nil {
		fmt.Fprintf(out, "  Workforce:  %d\n", *w.Workforce)
	}
	if w.StartDate != nil {
		fmt.Fprintf(out, "  Start:      %s\n", w.StartDate.Format(dateLayout))
	}
	if w.EndDate != nil {
		fmt.Fprintf(out, "  End:        %s\n", w.EndDate.Format(dateLayout))
	}
	if w.Featured != nil {
		fmt.Fprintf(out, "  Featured:   %s\n", *w.Featured)
	}
}
