package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/user/tcas-fee-crawler/internal/adapter/tabular"
	"github.com/user/tcas-fee-crawler/internal/aggregate"
	"github.com/user/tcas-fee-crawler/internal/entity"
	"github.com/user/tcas-fee-crawler/internal/fee"
	"github.com/user/tcas-fee-crawler/internal/repository"
	"github.com/user/tcas-fee-crawler/internal/usecase"
	"github.com/user/tcas-fee-crawler/pkg/config"
	"github.com/user/tcas-fee-crawler/pkg/logger"
)

var summaryTop int

func init() {
	summaryCmd.Flags().IntVar(&summaryTop, "top", 10, "Institutions to list.")
	rootCmd.AddCommand(summaryCmd)
}

var summaryCmd = &cobra.Command{
	Use:   "summary <table>...",
	Short: "Prints fee statistics for one or more exported record tables.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		log := logger.Init(os.Stderr, cfg.LogLevel)
		defer func() { _ = log.Sync() }()

		readers := make([]repository.TableReader, len(args))
		for i, path := range args {
			readers[i] = tabular.NewFileReader(path)
		}
		ds, err := usecase.LoadDataset(cmd.Context(), readers)
		if err != nil {
			return err
		}
		printSummary(cmd, ds, summaryTop)
		return nil
	},
}

func printSummary(cmd *cobra.Command, ds entity.Dataset, top int) {
	right := []table.ColumnConfig{{Number: 2, Align: text.AlignRight}}

	st := aggregate.OverallStats(ds)
	t := newTable(cmd)
	t.SetTitle("Overview")
	t.SetColumnConfigs(right)
	t.AppendRow(table.Row{"Programs", ds.Len()})
	t.AppendRow(table.Row{"With fee", len(ds.WithFee)})
	t.AppendRow(table.Row{"Without fee", len(ds.NoFee)})
	t.AppendRow(table.Row{"Institutions missing fees", aggregate.MissingFeeInstitutionCount(ds)})
	if st.Count > 0 {
		t.AppendSeparator()
		t.AppendRow(table.Row{"Average fee", fee.Format(st.Mean)})
		t.AppendRow(table.Row{"Highest fee", fee.Format(st.Max.Fee), owner(st.Max.Owner)})
		t.AppendRow(table.Row{"Lowest fee", fee.Format(st.Min.Fee), owner(st.Min.Owner)})
	}
	t.Render()

	t = newTable(cmd)
	t.SetTitle("Programs per keyword")
	t.SetColumnConfigs(right)
	t.AppendHeader(table.Row{"Keyword", "Programs"})
	for _, c := range aggregate.CountsByKeyword(ds) {
		t.AppendRow(table.Row{c.Label.Value(), c.Count})
	}
	t.Render()

	t = newTable(cmd)
	t.SetTitle("Top institutions")
	t.SetColumnConfigs(right)
	t.AppendHeader(table.Row{"Institution", "Programs"})
	for _, c := range aggregate.TopInstitutions(ds, top) {
		t.AppendRow(table.Row{c.Label.Display(entity.FieldInstitution), c.Count})
	}
	t.Render()

	t = newTable(cmd)
	t.SetTitle("Fee bands")
	t.SetColumnConfigs(right)
	t.AppendHeader(table.Row{"Band", "Programs"})
	for _, b := range aggregate.HistogramByFeeBand(ds, fee.DefaultBands) {
		t.AppendRow(table.Row{b.Label, b.Count})
	}
	t.Render()
}

func owner(o aggregate.Owner) string {
	return o.Institution.Display(entity.FieldInstitution) + " / " +
		o.Program.Display(entity.FieldProgram) + " / " +
		o.Campus.Display(entity.FieldCampus)
}
