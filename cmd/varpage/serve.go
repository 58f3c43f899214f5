package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/varpage/mirror"
	"github.com/dshills/varpage/mirror/memengine"
	"github.com/dshills/varpage/session"
)

var (
	serveAddr    string
	serveDebug   bool
	serveNoKinds bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the paging protocol over TCP against a sample graph",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:7745", "listen address")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "debug logging")
	serveCmd.Flags().BoolVar(&serveNoKinds, "no-kind-filter", false,
		"simulate an engine without kind-filtered property enumeration")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(serveDebug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	eng := sampleEngine(!serveNoKinds)
	sess, err := session.New(session.Config{Engine: eng, Logger: logger})
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", serveAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", serveAddr, err)
	}
	defer ln.Close()
	logger.Info("serving", zap.String("addr", ln.Addr().String()),
		zap.Strings("commands", sess.Registry().List()))

	// One connection at a time: the protocol is strictly sequential and
	// the sample "debuggee" is permanently paused.
	for {
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}
		logger.Info("client connected", zap.String("remote", conn.RemoteAddr().String()))
		if err := sess.ServeConn(conn); err != nil {
			logger.Warn("connection ended", zap.Error(err))
		}
		conn.Close()
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// sampleEngine builds a paused-process object graph with enough variety
// to exercise every paging path: a huge array, a typed buffer, small
// nested objects, and a frame with an oversized locals scope.
func sampleEngine(kindFiltered bool) *memengine.Engine {
	eng := memengine.New(mirror.Capabilities{KindFilteredEnumeration: kindFiltered})

	elems := make([]any, 1000)
	for i := range elems {
		elems[i] = i * i
	}
	big := eng.NewArray(elems...)
	eng.Bind("squares", big)

	buf := eng.NewObject("Uint8Array")
	for i := 0; i < 256; i++ {
		buf.Set(fmt.Sprintf("%d", i), i)
	}
	buf.Set("byteLength", 256)
	eng.Bind("buf", buf)

	point := eng.NewObject("Object").Set("x", 12.5).Set("y", -3.0)
	eng.Bind("point", point)

	locals := eng.NewObject("Object")
	for i := 0; i < 50; i++ {
		locals.Set(fmt.Sprintf("v%02d", i), i)
	}
	locals.Set("squares", big).Set("point", point)

	global := eng.NewObject("Object").Set("version", "1.0").Set("buf", buf)
	eng.SetScopes(0, []mirror.ScopeDescriptor{
		{Kind: mirror.ScopeLocal, Object: locals},
		{Kind: mirror.ScopeGlobal, Object: global},
	})

	return eng
}
