package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/core/grade"
	"github.com/trezcool/brightacademy/core/student"
	"github.com/trezcool/brightacademy/storage/fixtures"
)

// seed loads the demo fixtures. Databases that already hold students are left untouched.
func (cli *commandLine) seed() error {
	ctx := context.Background()

	existing, err := cli.stdSvc.Query(ctx, student.QueryFilter{})
	if err != nil {
		return errors.Wrap(err, "counting students")
	}
	if len(existing) > 0 {
		fmt.Printf("Database already has %d students, skipping\n", len(existing))
		return nil
	}

	students := make([]student.Student, 0, len(fixtures.Students))
	for _, ns := range fixtures.Students {
		if err = ns.Validate(cli.validate); err != nil {
			return cli.describe(err)
		}
		s, err := cli.stdSvc.Create(ctx, ns)
		if err != nil {
			return errors.Wrapf(err, "creating student %s", ns.FirstName)
		}
		students = append(students, s)
	}

	for _, nt := range fixtures.Teachers {
		if err = nt.Validate(cli.validate); err != nil {
			return cli.describe(err)
		}
		if err = cli.tchrSvc.CheckUniqueness(ctx, nt.Email); err != nil {
			return cli.describe(err)
		}
		if _, err = cli.tchrSvc.Create(ctx, nt); err != nil {
			return errors.Wrapf(err, "creating teacher %s", nt.FirstName)
		}
	}

	for _, fg := range fixtures.Grades {
		g := fg
		ng := grade.NewGrade{
			StudentID:     students[g.Student].ID,
			Term:          g.Term,
			English:       &g.English,
			Chichewa:      &g.Chichewa,
			Math:          &g.Math,
			Science:       &g.Science,
			SocialStudies: &g.SocialStudies,
			Comments:      g.Comments,
		}
		if err = ng.Validate(cli.validate); err != nil {
			return cli.describe(err)
		}
		if _, err = cli.gradeSvc.Create(ctx, ng); err != nil {
			return cli.describe(err)
		}
	}

	fmt.Printf("Seeded %d students, %d teachers and %d grades\n",
		len(fixtures.Students), len(fixtures.Teachers), len(fixtures.Grades))
	return nil
}
