package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/michezo/core"
	"github.com/trezcool/michezo/core/org"
)

func (cli *commandLine) createOrg(name, slug string) error {
	ctx := context.Background()
	slug = core.CleanString(slug, true /* lower */)

	if err := cli.orgRepo.CheckSlugUniqueness(ctx, slug); err != nil {
		return err
	}

	now := time.Now().UTC()
	o := org.Organization{
		ID:        uuid.NewString(),
		Name:      core.CleanString(name),
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := cli.orgRepo.CreateOrganization(ctx, o); err != nil {
		return err
	}
	logger.Printf("organization %q created", slug)
	return nil
}
