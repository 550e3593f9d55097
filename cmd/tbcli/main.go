// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/luxfi/log"
	"github.com/spf13/cobra"

	"github.com/luxfi/tokenbridge/bridge"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tbcli",
	Short: "Token bridge instruction builder",
	Long: `tbcli translates token bridge VAAs and account addresses into
Solana program instructions.

Every command prints the instruction as JSON. Nothing is signed or submitted.`,
	Version:       fmt.Sprintf("%s (built %s)", version, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configFile string
	verbose    bool
	flagConfig Config
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "YAML file with program_id, bridge_id and payer defaults")
	pf.StringVar(&flagConfig.ProgramID, "program", "", "Token bridge program ID (base58)")
	pf.StringVar(&flagConfig.BridgeID, "bridge", "", "Core bridge program ID (base58)")
	pf.StringVar(&flagConfig.Payer, "payer", "", "Fee payer (base58)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log decoding details")

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(messageKeyCmd)
	rootCmd.AddCommand(attestCmd)
	rootCmd.AddCommand(transferNativeCmd)
	rootCmd.AddCommand(transferWrappedCmd)
	rootCmd.AddCommand(completeNativeCmd)
	rootCmd.AddCommand(completeWrappedCmd)
	rootCmd.AddCommand(createWrappedCmd)
	rootCmd.AddCommand(registerChainCmd)
	rootCmd.AddCommand(upgradeCmd)
}

// settings merges the config file with flags set on the command line.
func settings(cmd *cobra.Command) (Config, error) {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("program") {
		cfg.ProgramID = flagConfig.ProgramID
	}
	if flags.Changed("bridge") {
		cfg.BridgeID = flagConfig.BridgeID
	}
	if flags.Changed("payer") {
		cfg.Payer = flagConfig.Payer
	}
	return cfg, nil
}

func newDispatcher() *bridge.Dispatcher {
	if !verbose {
		return bridge.New()
	}
	return bridge.New(bridge.WithLogger(log.Root()))
}
