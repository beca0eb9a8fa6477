package cli

import (
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/avlviz/pkg/graph"
	"github.com/matzehuels/avlviz/pkg/layout"
	"github.com/matzehuels/avlviz/pkg/pipeline"
)

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for avlviz.

Snapshot names, layout strategies and output formats complete as well.

  bash:        source <(avlviz completion bash)
  zsh:         avlviz completion zsh > "${fpath[1]}/_avlviz"
  fish:        avlviz completion fish | source
  powershell:  avlviz completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// completeSnapshotRefs offers saved snapshot names, or short IDs for
// unnamed snapshots, as positional arguments.
func (c *CLI) completeSnapshotRefs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	st, err := c.openStore(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer st.Close()

	snaps, err := st.List(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var refs []string
	for _, s := range snaps {
		ref := s.Name
		if ref == "" {
			ref = shortID(s.ID)
		}
		if strings.HasPrefix(ref, toComplete) {
			refs = append(refs, ref+"\t"+formatKeys(s.Keys))
		}
	}
	return refs, cobra.ShellCompDirectiveNoFileComp
}

func completeStrategies(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, len(layout.Strategies))
	for i, s := range layout.Strategies {
		out[i] = string(s)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeVizTypes(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{graph.VizTypeTree, graph.VizTypeNodelink}, cobra.ShellCompDirectiveNoFileComp
}

// completeFormats completes the last item of a comma-separated format list.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done, _ := splitLast(toComplete)
	var out []string
	for _, f := range slices.Sorted(maps.Keys(pipeline.ValidFormats)) {
		if !strings.Contains(","+done, ","+f+",") {
			out = append(out, done+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// splitLast splits "svg,pn" into "svg," and "pn".
func splitLast(s string) (head, last string) {
	i := strings.LastIndex(s, ",")
	return s[:i+1], s[i+1:]
}
