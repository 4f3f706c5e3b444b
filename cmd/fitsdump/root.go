package main

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aperturefits/gofits/internal/flog"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "fitsdump",
	Short: "Inspect and decompress FITS files",
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.fitsdump/config.yaml)")
	rootCmd.PersistentFlags().String("region", "us-east-1", "AWS region used for s3:// sources")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase logging verbosity (-v, -vv, -vvv)")

	viper.BindPFlag("region", rootCmd.PersistentFlags().Lookup("region"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(headerCmd, imageCmd, tableCmd, decompressCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err == nil {
			viper.AddConfigPath(home + "/.fitsdump")
		}
		viper.SetConfigName("config")
	}
	viper.SetEnvPrefix("FITSDUMP")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		flog.Info.Printf("using config file %s", viper.ConfigFileUsed())
	}
	level := flog.Level(viper.GetInt("verbose"))
	flog.SetLevel(level)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
