package seed

import (
	"github.com/spf13/cobra"

	"github.com/shopfront/storefront-manager/internal/business"
	"github.com/shopfront/storefront-manager/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"seed",
		"Storefront Manager catalog seeding",
		"Loads the YAML catalog seed file into the products table and exits.",
		buildInfo,
		cmdutils.RunAsJob,
		business.SeedMain,
	)
}
