package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/models"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scheduleCmd)

	f := scheduleCmd.Flags()
	f.Float64P("amount", "a", 0, "Principal amount")
	f.Float64P("rate", "r", 0, "Monthly interest rate, percent")
	f.IntP("term", "t", 12, "Number of installments")
	f.StringP("frequency", "f", "monthly", "daily, weekly, biweekly, monthly, quarterly or yearly")
	f.StringP("start", "s", "", "First due date, YYYY-MM-DD (default today)")
	f.Float64("fixed", 0, "Fixed installment amount; the rate is implied from it")
	f.String("filter", "", "Only show rows containing this text")
	f.String("sort", "", "Sort column: "+columnList())
	f.Bool("desc", false, "Sort descending")
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print an amortization schedule",
	Args:  cobra.NoArgs,
	RunE:  runSchedule,
}

func runSchedule(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	amount, _ := f.GetFloat64("amount")
	rate, _ := f.GetFloat64("rate")
	term, _ := f.GetInt("term")
	frequency, _ := f.GetString("frequency")
	start, _ := f.GetString("start")
	fixed, _ := f.GetFloat64("fixed")
	filter, _ := f.GetString("filter")
	sortBy, _ := f.GetString("sort")
	desc, _ := f.GetBool("desc")

	svc := &service.Service{}
	schedule, err := svc.Simulate(service.ScheduleRequest{
		Amount:             amount,
		InterestRate:       rate,
		Frequency:          models.Frequency(frequency),
		Term:               term,
		StartDate:          start,
		FixedPaymentAmount: fixed,
	}, service.TableOptions{Query: filter, Sort: sortBy, Desc: desc})
	if err != nil {
		return err
	}
	return printSchedule(cmd.OutOrStdout(), schedule)
}

func printSchedule(out io.Writer, s *models.Schedule) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "#\tDate\tInterest\tPrincipal\tPayment\tBalance\t")
	for _, row := range s.Rows {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
			row.Number, row.Date, row.Interest, row.Principal, row.Payment, row.Balance)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nPeriod payment %.2f at %.2f%% monthly; interest %.2f, principal %.2f, total %.2f\n",
		s.Summary.PeriodPayment, s.Summary.EffectiveRate,
		s.Summary.TotalInterest, s.Summary.TotalPrincipal, s.Summary.TotalPayment)
	return nil
}
