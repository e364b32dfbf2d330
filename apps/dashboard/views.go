package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/trezcool/upeo/core/attainment"
	"github.com/trezcool/upeo/core/user"
	backendsvc "github.com/trezcool/upeo/services/backend"
)

func (cli *commandLine) courses(ctx context.Context, dept string, year int) error {
	courses, err := cli.backend.QueryCourses(ctx, dept, year)
	if err != nil {
		return err
	}
	if len(courses) == 0 {
		fmt.Println("No courses found")
		return nil
	}

	table := newTable("ID", "Code", "Name", "Dept", "Year", "Class", "Locked")
	for _, c := range courses {
		locked := ""
		if c.Locked {
			locked = "yes"
		}
		table.Append([]string{c.ID, c.Code, c.Name, c.Department, strconv.Itoa(c.AcademicYear), c.Class.String, locked})
	}
	table.Render()
	return nil
}

// attainment renders the coordinator view: the normalized yearly rows, the
// best/worst-year summary and the course targets.
func (cli *commandLine) attainment(ctx context.Context, courseID, dept string) error {
	if err := cli.guard.CanAccess(ctx, user.RoleCoordinator, user.RoleAdmin); err != nil {
		return err
	}

	raw, err := cli.backend.QueryAttainment(ctx, courseID, dept)
	if err != nil {
		return err
	}
	records := attainment.NormalizeAll(raw)

	color.Yellow("\nCourse Attainment")
	table := newTable("Year", "UT", "In-Sem", "End-Sem", "Final", "Total")
	for _, r := range records {
		table.Append([]string{
			strconv.Itoa(r.AcademicYear),
			attainment.FormatScore(r.UnitTest),
			attainment.FormatScore(r.InSem),
			attainment.FormatScore(r.EndSem),
			attainment.FormatScore(r.Final),
			attainment.FormatScore(r.Total),
		})
	}
	table.Render()

	if sum, ok := attainment.Summarize(records); ok {
		color.Green("Best year:  %d (%s)", sum.Max.AcademicYear, attainment.FormatScore(sum.Max.Total))
		color.Red("Worst year: %d (%s)", sum.Min.AcademicYear, attainment.FormatScore(sum.Min.Total))
	}

	rawTargets, err := cli.backend.GetTargets(ctx, courseID, dept, 0)
	if err != nil {
		return err
	}
	color.Yellow("\nTargets")
	targets := newTable("Level", "Target", "SPPU")
	for _, lvl := range attainment.NormalizeTargets(rawTargets) {
		targets.Append([]string{strconv.Itoa(lvl.Level), lvl.Target, lvl.SPPU})
	}
	targets.Render()
	return nil
}

func (cli *commandLine) targets(ctx context.Context, courseID, dept string) error {
	if err := cli.guard.CanAccess(ctx, user.RoleCoordinator, user.RoleAdmin); err != nil {
		return err
	}

	raw, err := cli.backend.GetTargets(ctx, courseID, dept, 0)
	if err != nil {
		return err
	}
	table := newTable("Level", "Target", "SPPU")
	for _, lvl := range attainment.NormalizeTargets(raw) {
		table.Append([]string{strconv.Itoa(lvl.Level), lvl.Target, lvl.SPPU})
	}
	table.Render()
	return nil
}

// setTargets stores a course target; the three levels arrive as
// comma-separated triples, level 1 first.
func (cli *commandLine) setTargets(ctx context.Context, courseID, dept string, year int, targets, sppus string) error {
	if err := cli.guard.CanAccess(ctx, user.RoleCoordinator); err != nil {
		return err
	}

	tvals := strings.Split(targets, ",")
	svals := strings.Split(sppus, ",")
	if len(tvals) != 3 || len(svals) != 3 {
		return fmt.Errorf("-set and -sppu each need exactly 3 comma-separated values")
	}

	err := cli.backend.SetTargets(ctx, backendsvc.TargetInput{
		CourseID:     courseID,
		Department:   dept,
		AcademicYear: year,
		Target1:      strings.TrimSpace(tvals[0]),
		Target2:      strings.TrimSpace(tvals[1]),
		Target3:      strings.TrimSpace(tvals[2]),
		SPPU1:        strings.TrimSpace(svals[0]),
		SPPU2:        strings.TrimSpace(svals[1]),
		SPPU3:        strings.TrimSpace(svals[2]),
	})
	if err != nil {
		return err
	}
	color.Green("Targets saved for course %s", courseID)
	return nil
}

func newTable(headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	return table
}
