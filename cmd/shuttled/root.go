package main

import (
	"github.com/spf13/cobra"

	"github.com/pushchain/terra-shuttle/relayer/constant"
)

const flagHome = "home"

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "shuttled",
		Short:         "Terra shuttle relayer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(flagHome, constant.DefaultNodeHome, "directory holding config/"+constant.ConfigFileName)

	InitRootCmd(rootCmd)

	return rootCmd
}
