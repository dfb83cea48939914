package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/klokku/spendpace/internal/app"
	"github.com/klokku/spendpace/internal/database"
	"github.com/klokku/spendpace/pkg/insights"
	"github.com/klokku/spendpace/pkg/period"
	"github.com/klokku/spendpace/pkg/transaction"
	"github.com/klokku/spendpace/pkg/user"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("period", "p", string(period.Month), "day, week, month or year")
	reportCmd.Flags().StringP("filter", "f", string(transaction.FilterExpense), "expense, income or all")
	reportCmd.Flags().StringP("date", "d", "", "Any date (YYYY-MM-DD) inside the reported period, defaults to today")
}

var reportCmd = &cobra.Command{
	Use:   "report USER_UID",
	Short: "Print the CSV summary of a period for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

type reportOptions struct {
	periodType period.Type
	filter     transaction.Filter
	date       string
}

func runReport(cmd *cobra.Command, args []string) error {
	periodValue, _ := cmd.Flags().GetString("period")
	filterValue, _ := cmd.Flags().GetString("filter")
	date, _ := cmd.Flags().GetString("date")

	periodType, err := period.ParseType(periodValue)
	if err != nil {
		return err
	}
	filter, err := transaction.ParseFilter(filterValue)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	deps, err := app.BuildDependencies(db, cfg)
	if err != nil {
		return err
	}
	return writeReport(ctx, cmd.OutOrStdout(), deps.UserService, deps.InsightsService, deps.CsvRenderer, args[0],
		reportOptions{periodType: periodType, filter: filter, date: date})
}

func writeReport(
	ctx context.Context,
	out io.Writer,
	userService user.Service,
	service insights.Service,
	renderer insights.SummaryRenderer,
	uid string,
	options reportOptions,
) error {
	u, err := userService.GetUserByUid(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to find user %s: %w", uid, err)
	}
	ctx = user.WithUser(ctx, u)

	var anchor *time.Time
	if options.date != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, options.date, u.Settings.Location())
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", options.date, err)
		}
		anchor = &parsed
	}

	summary, err := service.Summary(ctx, options.periodType, anchor, options.filter)
	if err != nil {
		return err
	}
	content, err := renderer.RenderSummary(summary)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, content)
	return err
}
