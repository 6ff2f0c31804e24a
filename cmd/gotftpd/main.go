// Command gotftpd is a simple, read-only TFTP server that serves files from
// a single directory.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	tftp "github.com/manciukic/gotftp"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "gotftpd LISTEN_PORT FILES_DIR",
		Short:        "Serve files read-only over TFTP",
		Args:         cobra.ExactArgs(2),
		RunE:         runServe,
		SilenceUsage: true,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	port, dir := args[0], args[1]

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("gotftpd: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("gotftpd: %q is not a directory", dir)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("gotftpd: build logger: %w", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	srv := &tftp.Server{
		Addr:   net.JoinHostPort("", port),
		Root:   tftp.RootFS{Root: dir},
		Logger: sugar,
	}

	sugar.Infow("serving directory read-only over TFTP", "dir", dir, "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("gotftpd: %w", err)
	}
	return nil
}
