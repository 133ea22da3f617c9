package main

import (
	"VideoForge/internal/data"
	"VideoForge/internal/notify"
	"VideoForge/internal/service"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bootstrap本身就会迁移，这里再跑一次是为了把结果明确告诉调用者
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := data.Migrate(a.DB); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ 数据库迁移成功")
			return nil
		},
	}
}

func newVideoCommand(ctx *commandContext) *cobra.Command {
	videoCmd := &cobra.Command{
		Use:   "video",
		Short: "Inspect and manage video requests",
	}
	videoCmd.AddCommand(newVideoListCommand(ctx))
	videoCmd.AddCommand(newVideoDeleteCommand(ctx))
	return videoCmd
}

func newVideoListCommand(ctx *commandContext) *cobra.Command {
	var page, perPage int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List video requests, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			videos := service.NewVideoService(a.VideoRepo, a.UoW, a.Cache, notify.Noop{}, service.Channels{})
			items, total, err := videos.List(cmd.Context(), page, perPage)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(items))
			for _, v := range items {
				rows = append(rows, []string{
					strconv.FormatUint(v.ID, 10),
					notify.Truncate(v.Title, 40),
					v.Maker,
					v.Status.Display(),
					v.CreatedAt.Format("2006-01-02"),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Maker", "Status", "Created"},
				rows,
				[]columnAlignment{alignRight},
			))
			fmt.Fprintf(out, "共 %d 条\n", total)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 20, "Items per page (max 50)")
	return cmd
}

func newVideoDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <video_id>",
		Short: "Delete a video request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid video id %q", args[0])
			}
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			videos := service.NewVideoService(a.VideoRepo, a.UoW, a.Cache, notify.Noop{}, service.Channels{})
			if err := videos.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已删除视频 #%d\n", id)
			return nil
		},
	}
}

func newLeaderboardCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top video makers",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := a.Reports().Leaderboard(cmd.Context(), limit)
			if err != nil {
				return err
			}
			table := make([][]string, 0, len(rows))
			for i, r := range rows {
				table = append(table, []string{strconv.Itoa(i + 1), r.Maker, strconv.FormatInt(r.VideoCount, 10)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Maker", "Videos"}, table, []columnAlignment{alignRight, alignLeft, alignRight}))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of rows")
	return cmd
}

func newEditorsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "editors",
		Short: "Show the highest rated editors",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := a.Reports().EditorLeaderboard(cmd.Context(), limit)
			if err != nil {
				return err
			}
			table := make([][]string, 0, len(rows))
			for i, r := range rows {
				table = append(table, []string{
					strconv.Itoa(i + 1),
					r.EditorID,
					strconv.FormatFloat(r.AvgRating, 'f', 2, 64),
					strconv.FormatInt(r.TotalRatings, 10),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Editor", "Avg", "Ratings"}, table,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight}))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of rows")
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show status distribution and monthly submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			reports := a.Reports()
			statuses, err := reports.StatusDistribution(cmd.Context())
			if err != nil {
				return err
			}
			months, err := reports.MonthlySubmissions(cmd.Context())
			if err != nil {
				return err
			}

			statusRows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				statusRows = append(statusRows, []string{s.Status.Display(), strconv.FormatInt(s.Total, 10)})
			}
			monthRows := make([][]string, 0, len(months))
			for _, m := range months {
				monthRows = append(monthRows, []string{m.Month, strconv.FormatInt(m.Total, 10)})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Status", "Videos"}, statusRows, []columnAlignment{alignLeft, alignRight}))
			fmt.Fprintln(out, renderTable([]string{"Month", "Submissions"}, monthRows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration with secrets redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderConfig(cfg.Redacted(), cfg.Automation.Missing()))
			return nil
		},
	})
	return configCmd
}

func renderConfig(shown map[string]string, missing []string) string {
	keys := make([]string, 0, len(shown))
	for k := range shown {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		v := shown[k]
		if v == "" {
			v = "Not set"
		}
		rows = append(rows, []string{k, v})
	}
	out := renderTable([]string{"Key", "Value"}, rows, nil)
	if len(missing) > 0 {
		out += "\nAutomation disabled, missing: " + strings.Join(missing, ", ")
	} else {
		out += "\nAutomation: enabled"
	}
	return out
}
