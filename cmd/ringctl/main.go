// ringctl is the operator tool for a running ringstore node.
//
// Exit codes: 0 on success, 1 on usage errors, 3 on connection or
// precondition errors.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/ringstore-platform/ringstore/node/adminpb"
)

const (
	exitUsage      = 1
	exitConnection = 3
)

var flags struct {
	Endpoint string
	Timeout  time.Duration
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "ringctl",
		Short:         "ringstore operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.Endpoint, "host", "H", "127.0.0.1:7199", "Admin endpoint of the node")
	rootCmd.PersistentFlags().DurationVar(&flags.Timeout, "timeout", 10*time.Second, "Per-command timeout")

	rootCmd.AddCommand(
		ringCmd(),
		infoCmd(),
		drainCmd(),
		decommissionCmd(),
		moveCmd(),
		removeTokenCmd(),
		flushCmd(),
		compactCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(exitUsage)
	}
}

// withClient dials the node and runs the command body; dial and RPC
// failures exit with the connection code.
func withClient(fn func(ctx context.Context, client adminpb.AdminClient) error) {
	ctx, cancel := context.WithTimeout(context.Background(), flags.Timeout)
	defer cancel()

	conn, err := dial(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: cannot connect to %s: %v\n", flags.Endpoint, err)
		os.Exit(exitConnection)
	}
	defer conn.Close()

	if err := fn(ctx, adminpb.NewAdminClient(conn)); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(exitConnection)
	}
}

// dial retries transient connection failures with exponential backoff
// until the command timeout expires.
func dial(ctx context.Context) (*grpc.ClientConn, error) {
	dialBackoff := backoff.ExponentialBackOff{
		InitialInterval:     100 * time.Millisecond,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         time.Second,
	}
	dialBackoff.Reset()

	for {
		conn, err := grpc.NewClient(flags.Endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err == nil {
			return conn, nil
		}
		select {
		case <-ctx.Done():
			return nil, err
		case <-time.After(dialBackoff.NextBackOff()):
		}
	}
}

func ringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ring",
		Short: "Print the token ring",
		Run: func(cmd *cobra.Command, args []string) {
			withClient(func(ctx context.Context, client adminpb.AdminClient) error {
				resp, err := client.Ring(ctx, &adminpb.Empty{})
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
				fmt.Fprintln(w, "TOKEN\tENDPOINT\tRACK\tSTATE\tSTATUS")
				for _, entry := range resp.GetEntries() {
					status := "Down"
					if entry.GetAlive() {
						status = "Up"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						entry.GetToken(), entry.GetEndpoint(), entry.GetRack(), entry.GetState(), status)
				}
				return w.Flush()
			})
		},
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print node identity and mode",
		Run: func(cmd *cobra.Command, args []string) {
			withClient(func(ctx context.Context, client adminpb.AdminClient) error {
				resp, err := client.Info(ctx, &adminpb.Empty{})
				if err != nil {
					return err
				}
				fmt.Printf("Endpoint     : %s\n", resp.GetEndpoint())
				fmt.Printf("Token        : %s\n", resp.GetToken())
				fmt.Printf("Mode         : %s\n", resp.GetMode())
				fmt.Printf("Cluster      : %s\n", resp.GetClusterName())
				fmt.Printf("Generation   : %d\n", resp.GetGeneration())
				fmt.Printf("Tables       : %v\n", resp.GetTables())
				return nil
			})
		},
	}
}

func drainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drain",
		Short: "Quiesce writes and flush memtables",
		Run: func(cmd *cobra.Command, args []string) {
			withClient(func(ctx context.Context, client adminpb.AdminClient) error {
				_, err := client.Drain(ctx, &adminpb.Empty{})
				return err
			})
		},
	}
}

func decommissionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decommission",
		Short: "Remove this node from the ring",
		Run: func(cmd *cobra.Command, args []string) {
			withClient(func(ctx context.Context, client adminpb.AdminClient) error {
				_, err := client.Decommission(ctx, &adminpb.Empty{})
				return err
			})
		},
	}
}

func moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move [token]",
		Short: "Relocate this node to a new token (no token: load balance)",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			token := ""
			if len(args) == 1 {
				token = args[0]
			}
			withClient(func(ctx context.Context, client adminpb.AdminClient) error {
				_, err := client.Move(ctx, &adminpb.TokenRequest{Token: token})
				return err
			})
		},
	}
}

func removeTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "removetoken <token>",
		Short: "Evict a dead node by its token",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			withClient(func(ctx context.Context, client adminpb.AdminClient) error {
				_, err := client.RemoveToken(ctx, &adminpb.TokenRequest{Token: args[0]})
				return err
			})
		},
	}
}

func flushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flush [table-glob...]",
		Short: "Flush the memtables of the matching tables",
		Run: func(cmd *cobra.Command, args []string) {
			withClient(func(ctx context.Context, client adminpb.AdminClient) error {
				resp, err := client.Flush(ctx, &adminpb.TableSelector{Patterns: args})
				if err != nil {
					return err
				}
				fmt.Printf("Flushed: %v\n", resp.GetTables())
				return nil
			})
		},
	}
}

func compactCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compact [table-glob...]",
		Short: "Compact the matching tables",
		Run: func(cmd *cobra.Command, args []string) {
			withClient(func(ctx context.Context, client adminpb.AdminClient) error {
				resp, err := client.Compact(ctx, &adminpb.TableSelector{Patterns: args})
				if err != nil {
					return err
				}
				fmt.Printf("Compacted: %v\n", resp.GetTables())
				return nil
			})
		},
	}
}
