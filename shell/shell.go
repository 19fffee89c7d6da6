// ABOUTME: Interactive command console over the heap graph
// ABOUTME: Readline loop, command dispatch, and help/quit plumbing

package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/viv-4/harb/graph"
	"github.com/viv-4/harb/internal/config"
	"github.com/viv-4/harb/output"
)

// command binds a console verb to its handler.
type command struct {
	name string
	run  func(s *Shell, args string)
	help string
}

var commands []command

func init() {
	commands = []command{
		{"print", (*Shell).cmdPrint, "Prints heap info for the address specified"},
		{"rootpath", (*Shell).cmdRootPath, "Display the root path for the object specified"},
		{"idom", (*Shell).cmdIdom, "Print the immediate dominator for the object specified"},
		{"dominators", (*Shell).cmdDominators, "Print all objects dominated by the object specified"},
		{"summary", (*Shell).cmdSummary, "Display a heap dump summary"},
		{"diff", (*Shell).cmdDiff, "Diff current heap dump with the specified dump"},
		{"help", (*Shell).cmdHelp, "Displays this message"},
		{"quit", (*Shell).cmdQuit, "Exits the program"},
	}
}

// Shell is the interactive front end. All heavy lifting happens in the
// graph package; the shell only parses lines and renders outcomes.
type Shell struct {
	graph *graph.Graph
	out   *output.Sink
	cfg   config.Config
	log   *zap.Logger
	quit  bool
}

// New creates a shell over an already-built graph, writing to w.
func New(g *graph.Graph, w io.Writer, cfg config.Config, log *zap.Logger) *Shell {
	if log == nil {
		log = zap.NewNop()
	}
	return &Shell{
		graph: g,
		out:   output.New(w),
		cfg:   cfg,
		log:   log,
	}
}

// Run reads commands until quit or end of input.
func (s *Shell) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.cfg.Prompt,
		HistoryFile:     s.cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("initializing readline: %w", err)
	}
	defer rl.Close()

	for !s.quit {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			break
		}
		s.Execute(line)
	}
	return nil
}

// Execute dispatches a single command line.
func (s *Shell) Execute(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	name, args, _ := strings.Cut(line, " ")
	args = strings.TrimSpace(args)
	for i := range commands {
		if commands[i].name == name {
			commands[i].run(s, args)
			return
		}
	}
	s.out.With(func(w io.Writer) {
		fmt.Fprintf(w, "unknown command: %s\n", name)
	})
}

func (s *Shell) cmdHelp(string) {
	s.out.With(func(w io.Writer) {
		fmt.Fprintf(w, "You can run the following commands:\n\n")
		for _, c := range commands {
			fmt.Fprintf(w, "\t%10s - %s\n", c.name, c.help)
		}
		fmt.Fprintf(w, "\n")
	})
}

func (s *Shell) cmdQuit(string) {
	s.quit = true
}
