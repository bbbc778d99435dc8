package housekeeper

import (
	"github.com/spf13/cobra"

	"github.com/shopfront/storefront-manager/internal/business"
	"github.com/shopfront/storefront-manager/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"housekeeper",
		"Storefront Manager Housekeeping job",
		"Storefront Manager Housekeeping job sweeps expired sessions out of storage.",
		buildInfo,
		cmdutils.RunAsService,
		business.HousekeeperMain,
	)
}
