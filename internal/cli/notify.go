package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/amortization"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/config"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/models"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/notification"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/repository"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.Flags().StringP("company", "c", "", "Company id")
	notifyCmd.MarkFlagRequired("company")
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Run one notification scan for a company",
	Args:  cobra.NoArgs,
	RunE:  runNotify,
}

func runNotify(cmd *cobra.Command, args []string) error {
	company, _ := cmd.Flags().GetString("company")
	companyID, err := uuid.Parse(company)
	if err != nil {
		return fmt.Errorf("invalid company id %q: %w", company, err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	agg := notification.NewAggregator(repository.NewRepository(db), logger)
	return printNotifications(cmd.OutOrStdout(), agg.Generate(ctx, companyID, time.Now()))
}

func printNotifications(out io.Writer, items []models.Notification) error {
	if len(items) == 0 {
		fmt.Fprintln(out, "No notifications")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRIORITY\tDUE\tTITLE\tMESSAGE")
	for _, n := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.Priority, n.DueDate, n.Title, n.Message)
	}
	return w.Flush()
}

func columnList() string {
	return strings.Join(amortization.Columns, ", ")
}
