// main.go - ntcpycon bridge entry point.
//
// grounded on original_source/ntcpycon/config.py (get_receiver_and_senders)
// for the single-config-file-argument CLI shape, and on
// IntuitionAmiga-IntuitionEngine's main.go for the flat os.Args-driven
// bootstrap with explicit os.Exit on a usage error.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	"github.com/zohassadar/ntcpycon"
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ntcpycon <config file>")
		os.Exit(1)
	}

	cfg, err := ntcpycon.LoadConfig(flag.Arg(0))
	if err != nil {
		glog.Exitf("%v", err)
	}
	if cfg.Debug {
		flag.Set("v", "1")
	}

	fanout := ntcpycon.NewFanout()

	senders, err := ntcpycon.BuildSenders(cfg.Senders, fanout)
	if err != nil {
		glog.Exitf("%v", err)
	}
	receiver, err := ntcpycon.BuildReceiver(cfg.Receiver, fanout)
	if err != nil {
		glog.Exitf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ntcpycon.Run(ctx, receiver, senders); err != nil && ctx.Err() == nil {
		glog.Exitf("bridge stopped: %v", err)
	}
}
