package migrate

import (
	"github.com/spf13/cobra"

	"github.com/shopfront/storefront-manager/internal/business"
	"github.com/shopfront/storefront-manager/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"migrate",
		"Storefront Manager migrations",
		"Applies the pending database schema migrations and exits.",
		buildInfo,
		cmdutils.RunAsJob,
		business.MigrateMain,
	)
}
