package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/core/user"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	usr, err := cli.usrSvc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		return err
	}
	if tag := user.CheckPasswordPolicy(pwd, usr.Name, usr.Username, usr.Email); tag != "" {
		return errors.Errorf("password rejected: %s", user.PasswordPolicyText(tag))
	}
	if _, err = cli.usrSvc.SetPassword(ctx, usr, pwd); err != nil {
		return errors.Wrap(err, "setting password")
	}
	fmt.Printf("Password of %q updated\n", usr.Name)
	return nil
}
