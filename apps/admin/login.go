package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) runLogin(args []string) error {
	loginCmd := newFlagSet("login")
	email := loginCmd.String("email", "", "The admin's email. The password will be prompted next.")
	if err := loginCmd.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		loginCmd.Usage()
		return errHelp
	}
	pwd, err := promptPassword()
	if err != nil {
		return err
	}
	if pwd == "" {
		loginCmd.Usage()
		return errHelp
	}

	sess, err := cli.authSvc.Login(context.Background(), *email, pwd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Signed in as %s <%s>\n", sess.User.Name, sess.User.Email)
	return nil
}

func (cli *commandLine) runWhoami() error {
	sess, err := cli.authSvc.Current()
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s <%s>\n", sess.User.Name, sess.User.Email)
	return nil
}
