package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/trezcool/upeo/core"
	"github.com/trezcool/upeo/core/marks"
	"github.com/trezcool/upeo/core/user"
)

func (cli *commandLine) viewMarks(ctx context.Context, courseID, examName string) error {
	if err := cli.guard.CanAccess(ctx, user.RoleFaculty); err != nil {
		return err
	}
	exam, err := marks.ParseExamType(core.CleanString(examName, true))
	if err != nil {
		return err
	}

	rows, err := cli.backend.QueryMarks(ctx, courseID, exam)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No marks recorded")
		return nil
	}

	schema, err := marks.SchemaFor(exam)
	if err != nil {
		return err
	}
	headers := []string{marks.KeyColumn}
	for _, col := range schema.Columns {
		headers = append(headers, col.Name)
	}

	table := newTable(headers...)
	for _, row := range rows {
		record := make([]string, 0, len(headers))
		for _, h := range headers {
			record = append(record, row[h])
		}
		table.Append(record)
	}
	table.Render()
	return nil
}

// uploadMarks submits a CSV sheet. Every problem is reported at once and
// nothing is submitted while any remains.
func (cli *commandLine) uploadMarks(ctx context.Context, courseID, examName, path string) error {
	if err := cli.guard.CanAccess(ctx, user.RoleFaculty); err != nil {
		return err
	}
	exam, err := marks.ParseExamType(core.CleanString(examName, true))
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, violations, err := marks.ReadSheet(f)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		printViolations(violations)
		return errHelp
	}

	course, err := cli.backend.GetCourse(ctx, courseID)
	if err != nil {
		return err
	}
	if err = cli.backend.UploadMarks(ctx, course, exam, rows); err != nil {
		if verr, ok := err.(*core.ValidationError); ok {
			printFieldErrors(verr.Fields)
			return errHelp
		}
		return err
	}
	color.Green("Uploaded %d row(s) for %s / %s", len(rows), course.Code, exam)
	return nil
}

func printViolations(violations []marks.Violation) {
	color.Red("The sheet was rejected; nothing was submitted:")
	for _, v := range violations {
		fmt.Printf("  %s\n", v)
	}
}

func printFieldErrors(fields []core.FieldError) {
	color.Red("The sheet was rejected; nothing was submitted:")
	for _, f := range fields {
		fmt.Printf("  %s: %s\n", f.Field, f.Error)
	}
}
