package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/skillforge/depot/commands"
)

func envs(base string) []string {
	return []string{"SKILLFORGE_" + base, base}
}

func main() {
	app := cli.NewApp()
	app.Name = "depot"
	app.Usage = "Serves published skills over Git and tarball downloads"
	app.Version = "0.1"
	app.DefaultCommand = "serve"
	app.Flags = []cli.Flag{
		&cli.StringFlag{Name: "redis-url", EnvVars: envs("REDIS_URL"), Required: true},
		&cli.StringFlag{Name: "catalog-url", EnvVars: envs("CATALOG_URL"), Required: true},
		&cli.StringFlag{Name: "catalog-token", EnvVars: envs("CATALOG_TOKEN"), Required: true},
		&cli.StringFlag{Name: "storage-mode", EnvVars: envs("DEPOT_STORAGE_MODE"), Required: true},
		&cli.StringFlag{Name: "local-storage-path", EnvVars: envs("DEPOT_LOCAL_STORAGE_PATH"), Required: false},
		&cli.StringFlag{Name: "s3-bucket-name", EnvVars: envs("DEPOT_S3_BUCKET_NAME"), Required: false},
		&cli.StringFlag{Name: "external-url", EnvVars: envs("DEPOT_EXTERNAL_URL"), Required: false, Value: "http://localhost:5000"},
		&cli.StringFlag{Name: "bind-address", EnvVars: envs("BIND_ADDRESS"), Required: false, Value: "0.0.0.0:5000"},
		&cli.StringFlag{Name: "probes-server-bind-address", EnvVars: envs("PROBES_BIND_ADDRESS"), Required: false, Value: "0.0.0.0:5002"},
	}
	app.Commands = []*cli.Command{
		{
			Name:   "serve",
			Usage:  "Starts the depot server",
			Action: commands.Serve,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println()
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
}
