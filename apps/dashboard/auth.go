package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/trezcool/upeo/core"
	"github.com/trezcool/upeo/core/user"
)

func (cli *commandLine) login(ctx context.Context, email, pwd string) error {
	sess, err := cli.mgr.Login(ctx, email, pwd)
	if err != nil {
		return err
	}
	color.Green("Logged in as %s (%s)", sess.User.Name, sess.User.Role)
	fmt.Printf("Dashboard: %s\n", user.DefaultRoute(sess.User.Role))
	return nil
}

func (cli *commandLine) logout() error {
	if err := cli.mgr.Logout(); err != nil {
		return err
	}
	color.Green("Logged out")
	return nil
}

func (cli *commandLine) whoami(ctx context.Context) error {
	sess, err := cli.mgr.Current(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		return core.ErrUnauthenticated
	}
	fmt.Printf("%s <%s>\n", sess.User.Name, sess.User.Email)
	fmt.Printf("role: %s\n", sess.User.Role)
	fmt.Printf("session expires: %s\n", sess.ExpiresAt().Local().Format("2006-01-02 15:04:05"))
	return nil
}
