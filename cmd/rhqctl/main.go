package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rhq-project/rhq-coregui/pkg/rpc"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var (
	serverAddr string
	session    string
	jsonOutput bool
	timeout    time.Duration

	conn   *grpc.ClientConn
	client *rpc.Client
)

func defaultServer() string {
	if s := os.Getenv("RHQ_SERVER"); s != "" {
		return s
	}
	return "localhost:7443"
}

var rootCmd = &cobra.Command{
	Use:   "rhqctl",
	Short: "CLI client for the RHQ core RPC services",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		conn, err = grpc.NewClient(serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return fmt.Errorf("failed to connect to server: %w", err)
		}
		client = rpc.NewClient(conn)
		client.SetSession(session)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if conn != nil {
			conn.Close()
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", defaultServer(), "gRPC server address")
	rootCmd.PersistentFlags().StringVar(&session, "session", os.Getenv("RHQ_SESSION"), "session token (defaults to $RHQ_SESSION)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "call timeout")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(methodsCmd)
	rootCmd.AddCommand(healthCmd)
}

func callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
