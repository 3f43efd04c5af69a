package main

import (
	"fmt"
	"os"

	"fjacquet/recon-csv/cmd/apply"
	"fjacquet/recon-csv/cmd/reconcile"
	"fjacquet/recon-csv/cmd/root"
	"fjacquet/recon-csv/internal/config"
)

func init() {
	// Load environment variables before any command runs so that viper
	// sees RECON_* overrides from a .env file.
	config.LoadEnv()

	root.Init()

	root.Cmd.AddCommand(reconcile.Cmd)
	root.Cmd.AddCommand(apply.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
