package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/go-gitbridge/internal/operations"
	"github.com/MyCarrier-DevOps/go-gitbridge/internal/output"
)

type operationFunc func(ctx context.Context, ops *operations.Operations, args []string) (operations.Result, error)

// newOperationCommand wraps an operation so it prints exactly one reply.
func newOperationCommand(use, short string, nargs int, run operationFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := operations.FromConfig(cmd.Context(), appConfig, appLogger)
			if err != nil {
				return err
			}

			res, opErr := run(cmd.Context(), ops, args)
			reply := output.FromResult(res.Message, opErr)
			if err := output.Write(cmd.OutOrStdout(), outputFormat, reply); err != nil {
				return err
			}
			if !reply.OK() {
				return errOperationFailed
			}
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(
		newOperationCommand("init <path>", "Create a repository with an initial commit", 1,
			func(ctx context.Context, ops *operations.Operations, args []string) (operations.Result, error) {
				return ops.Init(ctx, args[0])
			}),
		newOperationCommand("init-bare <path>", "Create a bare repository with an initial commit", 1,
			func(ctx context.Context, ops *operations.Operations, args []string) (operations.Result, error) {
				return ops.InitBare(ctx, args[0])
			}),
		newOperationCommand("clone <url> <path>", "Clone a repository into an empty directory", 2,
			func(ctx context.Context, ops *operations.Operations, args []string) (operations.Result, error) {
				return ops.Clone(ctx, args[0], args[1])
			}),
		newOperationCommand("commit <path> <message>", "Stage every change and commit it", 2,
			func(ctx context.Context, ops *operations.Operations, args []string) (operations.Result, error) {
				return ops.Commit(ctx, args[0], args[1])
			}),
		newOperationCommand("latest-message <path>", "Print the message of the HEAD commit", 1,
			func(ctx context.Context, ops *operations.Operations, args []string) (operations.Result, error) {
				return ops.LatestMessage(ctx, args[0])
			}),
		newOperationCommand("push <path> <branch>", "Push a branch to the configured remote", 2,
			func(ctx context.Context, ops *operations.Operations, args []string) (operations.Result, error) {
				return ops.PushRemote(ctx, args[0], args[1])
			}),
		newOperationCommand("fast-forward <path> <branch>", "Fetch a branch and fast-forward it", 2,
			func(ctx context.Context, ops *operations.Operations, args []string) (operations.Result, error) {
				return ops.FastForward(ctx, args[0], args[1])
			}),
		newOperationCommand("list-references <path>", "List every reference, comma terminated", 1,
			func(ctx context.Context, ops *operations.Operations, args []string) (operations.Result, error) {
				return ops.ListReferences(ctx, args[0])
			}),
		newOperationCommand("checkout <path> <branch>", "Fetch a branch and check it out", 2,
			func(ctx context.Context, ops *operations.Operations, args []string) (operations.Result, error) {
				return ops.CheckoutBranch(ctx, args[0], args[1])
			}),
	)
}
