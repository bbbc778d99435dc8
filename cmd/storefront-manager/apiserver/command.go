package apiserver

import (
	"github.com/spf13/cobra"

	"github.com/shopfront/storefront-manager/internal/business"
	"github.com/shopfront/storefront-manager/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"api-server",
		"Storefront Manager API server",
		"Storefront Manager API server hosts the public shop REST API",
		buildInfo,
		cmdutils.RunAsService,
		business.Main,
	)
}
