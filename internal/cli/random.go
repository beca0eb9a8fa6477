package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/avlviz/pkg/errors"
	"github.com/matzehuels/avlviz/pkg/keys"
)

// randomCommand creates the random command, which prints a batch of keys.
func (c *CLI) randomCommand() *cobra.Command {
	var (
		maxKey int
		seed   uint64
	)

	cmd := &cobra.Command{
		Use:   "random [count]",
		Short: "Print a batch of random keys",
		Long: `Print count random keys drawn uniformly from [1, max], separated by spaces.

The same --seed always prints the same keys. Without --seed every run differs.
The output can be passed straight to build, play or snapshot save.`,
		Example: `  avlviz random
  avlviz build $(avlviz random 50 --max 200 --seed 7)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			n := cfg.Random.Count
			if len(args) == 1 {
				if n, err = strconv.Atoi(args[0]); err != nil {
					return errors.New(errors.ErrCodeInvalidInput, "count must be an integer, got %q", args[0])
				}
			}
			if !cmd.Flags().Changed("max") {
				maxKey = cfg.Random.Max
			}
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}

			ks, err := keys.Random(n, maxKey, seed)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("random keys", "count", n, "max", maxKey, "seed", seed)
			fmt.Fprintln(cmd.OutOrStdout(), formatKeys(ks))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxKey, "max", keys.DefaultRandomMax, "largest key")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed")

	return cmd
}

// formatKeys joins keys with single spaces.
func formatKeys(ks []int) string {
	parts := make([]string, len(ks))
	for i, k := range ks {
		parts[i] = strconv.Itoa(k)
	}
	return strings.Join(parts, " ")
}
