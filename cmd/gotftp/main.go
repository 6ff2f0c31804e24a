// Command gotftp is an interactive TFTP client that can only issue read
// requests.
package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "gotftp SERVER_IP SERVER_PORT",
		Short:        "Interactive TFTP client",
		Example:      "gotftp 127.0.0.1 69",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         runShell,
	}
	return cmd
}

func runShell(cmd *cobra.Command, args []string) error {
	ip := args[0]
	port, err := strconv.Atoi(args[1])
	if err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("gotftp: invalid SERVER_PORT %q", args[1])
	}

	addr := net.JoinHostPort(ip, args[1])
	sh := newShell(addr, os.Stdin, os.Stdout)
	return sh.run()
}
