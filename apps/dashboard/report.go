package main

import (
	"context"
	"os"

	"github.com/fatih/color"

	"github.com/trezcool/upeo/core/attainment"
	"github.com/trezcool/upeo/core/user"
)

// report exports the department-wide attainment report as CSV, to stdout
// or to a file.
func (cli *commandLine) report(ctx context.Context, dept string, year int, outPath string) error {
	if err := cli.guard.CanAccess(ctx, user.RoleCoordinator, user.RoleAdmin); err != nil {
		return err
	}

	raw, err := cli.backend.QueryAttainmentReport(ctx, dept, year)
	if err != nil {
		return err
	}
	records := attainment.NormalizeAll(raw)

	if outPath == "" {
		return attainment.WriteReportCSV(os.Stdout, records)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err = attainment.WriteReportCSV(f, records); err != nil {
		return err
	}
	color.Green("Wrote %d record(s) to %s", len(records), outPath)
	return nil
}
