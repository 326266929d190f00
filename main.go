package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/elpinal/rain-vm/api"
	"github.com/elpinal/rain-vm/vm"
	"go.uber.org/zap"
)

func main() {
	apiAddr := flag.String("api", "", "serve the execution API on this address instead of running a file")
	debug := flag.Bool("debug", false, "log every dispatched instruction")
	flag.Parse()

	logger := zap.Must(zap.NewProduction())
	if *debug {
		logger = zap.Must(zap.NewDevelopment())
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	if *apiAddr != "" {
		srv, err := api.NewServer(api.ServerConfig{
			ListenerAddr: *apiAddr,
			Logger:       logger,
		})
		if err != nil {
			logger.Fatal(err.Error())
		}
		if err := srv.Start(); err != nil {
			logger.Fatal(err.Error())
		}
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: rain-vm [-api addr] [-debug] <filename>")
		os.Exit(2)
	}

	result, err := vm.ExecuteFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(result)
}
