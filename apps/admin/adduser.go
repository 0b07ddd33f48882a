package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/user"
)

func (cli *commandLine) addUser(nu user.NewUser) error {
	if err := nu.Validate(cli.validate, cli.usrSvc); err != nil {
		return cli.describe(err)
	}
	usr, err := cli.usrSvc.Create(context.Background(), nu)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	fmt.Printf("User %q created (id: %s)\n", usr.Name, usr.ID)
	return nil
}

// describe flattens validation errors into a single readable error.
func (cli *commandLine) describe(err error) error {
	var msgs []string
	switch vErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		for _, fe := range vErr {
			msgs = append(msgs, fe.Field()+": "+fe.Translate(cli.translator))
		}
	case *core.ValidationError:
		for fld, msg := range vErr.FieldMap() {
			msgs = append(msgs, fld+": "+msg)
		}
	default:
		return err
	}
	sort.Strings(msgs)
	return errors.New(strings.Join(msgs, "; "))
}
