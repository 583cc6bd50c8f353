package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"

	"github.com/chainsafe/htlc-relayer/pkg/app"
	"github.com/chainsafe/htlc-relayer/pkg/app/relayer"
	"github.com/chainsafe/htlc-relayer/pkg/config"

	"github.com/joho/godotenv"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "Path to configuration file")
	envPath := flag.String("env", ".env", "Optional dotenv file with secrets")
	flag.Parse()

	// Secrets such as RELAYER_PRIVATE_KEY may come from a dotenv file
	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("error reading env file %s: %s", *envPath, err.Error())
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("error reading configuration file: %s", err.Error())
	}

	var runner app.Runner = relayer.NewServer(cfg)
	if err := runner.Run(); err != nil {
		log.Fatalf("relayer failed: %s", err.Error())
	}
}
