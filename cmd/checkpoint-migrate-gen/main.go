// Command checkpoint-migrate-gen generates the SQL migration for a
// projector's checkpoint table.
//
// Usage:
//
//	go run github.com/cairnlabs/esprojector/cmd/checkpoint-migrate-gen -adapter postgres -output migrations
//	go run github.com/cairnlabs/esprojector/cmd/checkpoint-migrate-gen -adapter mysql -output migrations
//	go run github.com/cairnlabs/esprojector/cmd/checkpoint-migrate-gen -adapter sqlite -output migrations
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cairnlabs/esprojector/checkpoint/migrations"
)

func main() {
	var (
		adapter        = flag.String("adapter", "postgres", "Database adapter: postgres, mysql, or sqlite")
		outputFolder   = flag.String("output", "migrations", "Output folder for migration file")
		outputFilename = flag.String("filename", "", "Output filename (default: timestamp-based)")
		table          = flag.String("table", "projector_checkpoints", "Name of the checkpoint table")
	)

	flag.Parse()

	config := migrations.DefaultConfig()
	config.OutputFolder = *outputFolder
	config.Table = *table
	if *outputFilename != "" {
		config.OutputFilename = *outputFilename
	}

	var err error
	switch *adapter {
	case "postgres":
		err = migrations.GeneratePostgres(&config)
	case "mysql":
		err = migrations.GenerateMySQL(&config)
	case "sqlite":
		err = migrations.GenerateSQLite(&config)
	default:
		fmt.Fprintf(os.Stderr, "Error: unsupported adapter %q. Supported adapters are: postgres, mysql, sqlite\n", *adapter)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating migration: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s checkpoint migration in %s\n", *adapter, config.OutputFolder)
}
