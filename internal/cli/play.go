package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/avlviz/pkg/avl"
	"github.com/matzehuels/avlviz/pkg/graph"
	"github.com/matzehuels/avlviz/pkg/keys"
	"github.com/matzehuels/avlviz/pkg/layout"
	"github.com/matzehuels/avlviz/pkg/render/text"
)

// Insertion speed bounds for the play TUI.
const (
	defaultPlayInterval = time.Second
	minPlayInterval     = 50 * time.Millisecond
	maxPlayInterval     = 5 * time.Second

	// playHistory is how many rotations the TUI lists.
	playHistory = 6
)

var (
	playTreeStyle = lipgloss.NewStyle().Foreground(colorWhite).Padding(1, 2)
	playDupStyle  = lipgloss.NewStyle().Foreground(colorGray)
)

// playCommand creates the play command, which animates insertions.
func (c *CLI) playCommand() *cobra.Command {
	var (
		input    string
		interval time.Duration
		exit     bool
		seed     uint64
		lf       layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "play [keys...]",
		Short: "Animate insertions one key at a time",
		Long: `Insert keys one at a time and redraw the tree after every insertion.

Rotations are listed as they happen and the newest key is shown in brackets.
Without keys a random batch is played, as configured in the [random] section.

Controls: space pauses, n steps, + and - change the speed, q quits.`,
		Example: `  avlviz play 10 20 30 40 50 25
  avlviz play -i keys.txt --interval 250ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := defaultOptions(cfg)
			lf.apply(cmd, &opts)
			lcfg, err := opts.LayoutConfig()
			if err != nil {
				return err
			}

			ks, err := readKeys(cmd, args, input)
			if err != nil {
				return err
			}
			if len(ks) == 0 {
				if !cmd.Flags().Changed("seed") {
					seed = uint64(time.Now().UnixNano())
				}
				if ks, err = keys.Random(cfg.Random.Count, cfg.Random.Max, seed); err != nil {
					return err
				}
				loggerFromContext(ctx).Debug("playing random keys", "keys", formatKeys(ks))
			}

			m := newPlayModel(ks, interval, lcfg)
			m.autoQuit = exit
			final, err := runPlay(ctx, m, tea.WithOutput(cmd.OutOrStdout()), tea.WithInput(cmd.InOrStdin()))
			if err != nil {
				return err
			}

			s := final.tree.Stats()
			printSuccess("Inserted %d of %d keys", s.Inserted+s.Duplicates, len(ks))
			printDetail("%d nodes · height %d · %d rotations · %d duplicates",
				final.tree.Len(), final.tree.Height(), s.Rotations(), s.Duplicates)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "read keys from file (- for stdin)")
	cmd.Flags().DurationVar(&interval, "interval", defaultPlayInterval, "time between insertions")
	cmd.Flags().BoolVar(&exit, "exit", false, "quit after the last key")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed when no keys are given")
	lf.register(cmd)

	return cmd
}

// runPlay runs the TUI and returns the model it ended with.
func runPlay(ctx context.Context, m playModel, opts ...tea.ProgramOption) (playModel, error) {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return m, ctx.Err()
		}
		return m, fmt.Errorf("run player: %w", err)
	}
	return final.(playModel), nil
}

// =============================================================================
// playModel - Animated insertion
// =============================================================================

// tickMsg asks the model to insert the next key.
type tickMsg time.Time

// playModel is the bubbletea model for the play command. The tree is shared
// between copies of the model; only Update mutates it.
type playModel struct {
	tree      *avl.Tree[int]
	rotations *[]avl.Rotation[int]
	cfg       layout.Config

	pending  []int
	interval time.Duration
	paused   bool
	autoQuit bool

	last    int
	lastDup bool
	started bool
	drawing string
}

func newPlayModel(ks []int, interval time.Duration, cfg layout.Config) playModel {
	rots := new([]avl.Rotation[int])
	tree := avl.New(avl.WithRotationHook(func(r avl.Rotation[int]) {
		*rots = append(*rots, r)
	}))
	return playModel{
		tree:      tree,
		rotations: rots,
		cfg:       cfg,
		pending:   append([]int(nil), ks...),
		interval:  clampInterval(interval),
	}
}

func clampInterval(d time.Duration) time.Duration {
	return min(max(d, minPlayInterval), maxPlayInterval)
}

func (m playModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m playModel) Init() tea.Cmd {
	return m.tick()
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
		case "n", "right":
			m = m.step()
		case "+", "=":
			m.interval = clampInterval(m.interval / 2)
		case "-", "_":
			m.interval = clampInterval(m.interval * 2)
		}
		return m, nil
	case tickMsg:
		if !m.paused {
			m = m.step()
		}
		if m.done() {
			if m.autoQuit {
				return m, tea.Quit
			}
			return m, nil
		}
		return m, m.tick()
	}
	return m, nil
}

// step inserts the next pending key and redraws.
func (m playModel) step() playModel {
	if m.done() {
		return m
	}
	k := m.pending[0]
	m.pending = m.pending[1:]
	m.lastDup = !m.tree.Insert(k)
	m.last = k
	m.started = true

	l := graph.FromTree(m.tree, layout.Point{}, m.cfg)
	m.drawing = text.Render(l, text.WithBalance(), text.WithMark(graph.ID(k)))
	return m
}

func (m playModel) done() bool {
	return len(m.pending) == 0
}

func (m playModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("AVL tree"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d nodes · height %d", m.tree.Len(), m.tree.Height())))
	b.WriteString("\n")

	if m.drawing == "" {
		b.WriteString(playTreeStyle.Render(StyleDim.Render("(empty)")))
	} else {
		b.WriteString(playTreeStyle.Render(strings.TrimRight(m.drawing, "\n")))
	}
	b.WriteString("\n")

	if m.started {
		if m.lastDup {
			b.WriteString(playDupStyle.Render(fmt.Sprintf("%d already present, skipped", m.last)))
		} else {
			b.WriteString(StyleSuccess.Render(fmt.Sprintf("inserted %d", m.last)))
		}
		b.WriteString("\n")
	}

	rots := *m.rotations
	for _, r := range rots[max(len(rots)-playHistory, 0):] {
		b.WriteString(StyleWarning.Render(describeRotation(r)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(m.status()))
	b.WriteString("\n")
	return b.String()
}

func (m playModel) status() string {
	var state string
	switch {
	case m.done():
		state = "done"
	case m.paused:
		state = fmt.Sprintf("paused · %d left", len(m.pending))
	default:
		state = fmt.Sprintf("next %d · %d left · every %s", m.pending[0], len(m.pending), m.interval)
	}
	return state + "  space pause  n step  +/- speed  q quit"
}

// describeRotation reads like "left-right at 30, 25 on top (inserted 25)".
func describeRotation(r avl.Rotation[int]) string {
	return fmt.Sprintf("%s at %d, %d on top (inserted %d)", r.Case, r.Pivot, r.NewRoot, r.Inserted)
}
