package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/upeo/core/session"
	backendsvc "github.com/trezcool/upeo/services/backend"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	mgr     *session.Manager
	guard   *session.Guard
	backend *backendsvc.Client
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  login -email EMAIL                              - log in; the password will be prompted next")
	fmt.Println("  logout                                          - log out and clear the stored profile")
	fmt.Println("  whoami                                          - show the logged-in user")
	fmt.Println("  courses [-dept DEPT] [-year YEAR]               - list courses")
	fmt.Println("  attainment -course ID [-dept DEPT]              - show course attainment and targets")
	fmt.Println("  targets -course ID [-set T1,T2,T3 -sppu S1,S2,S3 -dept DEPT -year YEAR]")
	fmt.Println("                                                  - view or set course targets")
	fmt.Println("  marks -course ID -exam TYPE [-file SHEET.csv]   - view or upload a marks sheet")
	fmt.Println("  report -dept DEPT [-year YEAR] [-out FILE.csv]  - export the attainment report")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmail := loginCmd.String("email", "", "The account's email. The password will be prompted next.")

	coursesCmd := flag.NewFlagSet("courses", flag.ExitOnError)
	coursesDept := coursesCmd.String("dept", "", "Filter by department.")
	coursesYear := coursesCmd.Int("year", 0, "Filter by academic year.")

	attainmentCmd := flag.NewFlagSet("attainment", flag.ExitOnError)
	attainmentCourse := attainmentCmd.String("course", "", "The course ID.")
	attainmentDept := attainmentCmd.String("dept", "", "The course's department.")

	marksCmd := flag.NewFlagSet("marks", flag.ExitOnError)
	marksCourse := marksCmd.String("course", "", "The course ID.")
	marksExam := marksCmd.String("exam", "", "The exam type (ut1, ut2, ut3, insem, endsem, final).")
	marksFile := marksCmd.String("file", "", "A CSV sheet to upload. Omit to view the stored sheet.")

	targetsCmd := flag.NewFlagSet("targets", flag.ExitOnError)
	targetsCourse := targetsCmd.String("course", "", "The course ID.")
	targetsDept := targetsCmd.String("dept", "", "The course's department.")
	targetsYear := targetsCmd.Int("year", 0, "The academic year.")
	targetsSet := targetsCmd.String("set", "", "Set targets: \"t1,t2,t3\" (levels 1..3). Requires -sppu.")
	targetsSPPU := targetsCmd.String("sppu", "", "Set SPPU thresholds: \"s1,s2,s3\" (levels 1..3).")

	reportCmd := flag.NewFlagSet("report", flag.ExitOnError)
	reportDept := reportCmd.String("dept", "", "The department to report on.")
	reportYear := reportCmd.Int("year", 0, "The academic year to report on.")
	reportOut := reportCmd.String("out", "", "Write the CSV to this file instead of stdout.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(ctx, *loginEmail, string(pwd))
	case "logout":
		return cli.logout()
	case "whoami":
		return cli.whoami(ctx)
	case "courses":
		if err := coursesCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.courses(ctx, *coursesDept, *coursesYear)
	case "attainment":
		if err := attainmentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *attainmentCourse == "" {
			attainmentCmd.Usage()
			return errHelp
		}
		return cli.attainment(ctx, *attainmentCourse, *attainmentDept)
	case "marks":
		if err := marksCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *marksCourse == "" || *marksExam == "" {
			marksCmd.Usage()
			return errHelp
		}
		if *marksFile != "" {
			return cli.uploadMarks(ctx, *marksCourse, *marksExam, *marksFile)
		}
		return cli.viewMarks(ctx, *marksCourse, *marksExam)
	case "targets":
		if err := targetsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *targetsCourse == "" {
			targetsCmd.Usage()
			return errHelp
		}
		if *targetsSet != "" || *targetsSPPU != "" {
			return cli.setTargets(ctx, *targetsCourse, *targetsDept, *targetsYear, *targetsSet, *targetsSPPU)
		}
		return cli.targets(ctx, *targetsCourse, *targetsDept)
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *reportDept == "" {
			reportCmd.Usage()
			return errHelp
		}
		return cli.report(ctx, *reportDept, *reportYear, *reportOut)
	default:
		cli.printUsage()
		return errHelp
	}
}
