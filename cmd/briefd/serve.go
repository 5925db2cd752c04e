package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/infblueocean/briefd/internal/server"
)

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8080", "Listen address")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	st := openDB()
	defer st.Close()

	srv := server.New(buildPipeline(cfg, st), st)
	if err := srv.Serve(*addr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
