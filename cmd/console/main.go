package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ns-ai-search/console/internal/interfaces/cli/admin"
	"github.com/ns-ai-search/console/internal/interfaces/cli/migrate"
	"github.com/ns-ai-search/console/internal/interfaces/cli/server"
	"github.com/ns-ai-search/console/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "console",
		Short:   "NS AI Search admin console",
		Long:    `Admin console for NS AI Search: website and credit management, audit logs and the Facebook Messenger connector.`,
		Version: version.Current,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		admin.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
