package main

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/varpage/protocol"
)

var (
	callAddr string
	callArgs string
	callPath string
)

var callCmd = &cobra.Command{
	Use:   "call <command>",
	Short: "Send one command to a running server and print the response",
	Args:  cobra.ExactArgs(1),
	RunE:  runCall,
	Example: `  varpage call slice --args '{"handle":1,"mode":"indexed","start":500,"count":10}'
  varpage call lookup --args '{"handles":[1]}' --path 'body.1.vscode_indexedCnt'
  varpage call scopes --args '{"frame":0,"maxLocals":10}'`,
}

func init() {
	callCmd.Flags().StringVar(&callAddr, "addr", "127.0.0.1:7745", "server address")
	callCmd.Flags().StringVar(&callArgs, "args", "{}", "command arguments as JSON")
	callCmd.Flags().StringVar(&callPath, "path", "", "print only this path of the response")
}

func runCall(cmd *cobra.Command, args []string) error {
	if !gjson.Valid(callArgs) {
		return fmt.Errorf("--args is not valid JSON")
	}

	// Wrap the user's arguments into a request envelope.
	req := `{}`
	req, _ = sjson.Set(req, "seq", 1)
	req, _ = sjson.Set(req, "type", protocol.TypeRequest)
	req, _ = sjson.Set(req, "command", args[0])
	req, _ = sjson.SetRaw(req, "arguments", callArgs)

	conn, err := net.Dial("tcp", callAddr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", callAddr, err)
	}
	defer conn.Close()

	framed := protocol.NewConn(conn)
	if err := framed.WriteMessage([]byte(req)); err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	resp, err := framed.ReadMessage()
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if callPath != "" {
		fmt.Println(gjson.GetBytes(resp, callPath).String())
		return nil
	}
	os.Stdout.Write(resp)
	fmt.Println()
	return nil
}
