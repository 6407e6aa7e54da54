package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"payslip/adapters/excel"
	"payslip/domain/payroll"
	"payslip/internal/config"
	"payslip/internal/container"
	payrollsvc "payslip/internal/payroll"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "payslip",
		Short:        "Salary slip lookup, rendering and dataset maintenance",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newLookupCmd(),
		newRenderCmd(),
		newExportCmd(),
		newUploadCmd(),
		newTemplateCmd(),
		newSummaryCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadContainer builds the same services the portal uses
func loadContainer(ctx context.Context) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return container.New(ctx, cfg)
}

func newLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup [employee-id]",
		Short: "Print one employee's salary components",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			rec, err := c.Lookup.Find(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printRecord(cmd.OutOrStdout(), rec)
		},
	}
}

func printRecord(w io.Writer, rec payroll.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", payroll.ColumnName, rec.Name())
	fmt.Fprintf(tw, "%s\t%s\n", payroll.ColumnID, rec.ID())
	for _, field := range payroll.SalaryFields {
		fmt.Fprintf(tw, "%s\t%s\n", field, rec.FieldOrDefault(field))
	}
	return tw.Flush()
}

func newRenderCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render [employee-id]",
		Short: "Render one salary slip to a PDF file",
		Long: `Render the salary slip of one employee.

Example: payslip render 1023 -o /tmp/slip.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			_, doc, err := c.Lookup.Slip(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			path := output
			if path == "" {
				path = doc.FileName
			}
			if err := os.WriteFile(path, doc.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", path, doc.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default Salary_<id>.pdf)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var outDir string
	var workers int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render every employee's slip into a directory",
		Long: `Render one slip per employee identifier, concurrently.

Example: payslip export --out slips --workers 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			result, err := c.Lookup.Export(cmd.Context(), outDir, workers)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d slips to %s\n", len(result.Written), outDir)
			for id, ferr := range result.Failed {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %v\n", id, ferr)
			}
			if len(result.Failed) > 0 {
				return fmt.Errorf("%d slips failed", len(result.Failed))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "slips", "Output directory")
	cmd.Flags().IntVar(&workers, "workers", payrollsvc.DefaultExportWorkers, "Concurrent renders")
	return cmd
}

func newUploadCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "upload [spreadsheet]",
		Short: "Replace the serving dataset and mirror it to the remote store",
		Long: `Replace the salary dataset with an .xlsx or .csv file.

The password defaults to ADMIN_PASSWORD.

Example: payslip upload march.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if password == "" {
				password = c.Config.Admin.Password
			}

			result, err := c.Updater.Replace(cmd.Context(), password, payrollsvc.Upload{
				FileName: filepath.Base(args[0]),
				Data:     data,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Admin password")
	return cmd
}

func newTemplateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write an empty salary spreadsheet with the expected headers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := excel.Template()
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "salary_template.xlsx", "Output file")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print record counts and net salary statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			ds, err := c.Lookup.Dataset(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), payrollsvc.Summarize(ds))
		},
	}
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
