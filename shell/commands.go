// ABOUTME: Query command handlers: print, rootpath, idom, dominators,
// ABOUTME: summary and diff, plus address parsing and object rendering

package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/viv-4/harb/graph"
	"github.com/viv-4/harb/heapdump"
	"github.com/viv-4/harb/output"
)

// parseAddr resolves a command argument to a stored object. It accepts
// 0x-prefixed hex or decimal addresses. A nil result means the error
// has already been printed.
func (s *Shell) parseAddr(args string) *graph.Object {
	if args == "" {
		s.printf("error: you must specify an address\n")
		return nil
	}
	addr, err := strconv.ParseUint(args, 0, 64)
	if err != nil || addr == 0 {
		s.printf("error: you must specify a valid heap address\n")
		return nil
	}
	obj := s.graph.Lookup(graph.ObjID(addr))
	if obj == nil {
		s.printf("error: no object found at address 0x%x\n", addr)
		return nil
	}
	return obj
}

func (s *Shell) printf(format string, args ...any) {
	s.out.With(func(w io.Writer) {
		fmt.Fprintf(w, format, args...)
	})
}

// describe renders the one-line summary used by ref listings.
func (s *Shell) describe(obj *graph.Object) string {
	if obj.IsRoot {
		return fmt.Sprintf("ROOT (%s)", obj.Name)
	}
	desc := fmt.Sprintf("0x%x: %s", uint64(obj.ID), obj.Type)
	switch obj.Type {
	case graph.TypeString:
		if obj.Name != "" {
			desc += fmt.Sprintf(" %q", obj.Name)
		}
	case graph.TypeClass, graph.TypeModule:
		if obj.Name != "" {
			desc += " " + obj.Name
		}
	default:
		if cls := s.className(obj); cls != "" {
			desc += " (" + cls + ")"
		}
	}
	return desc
}

// className resolves the record's class address to a name when the
// class object is present in the snapshot.
func (s *Shell) className(obj *graph.Object) string {
	if obj.Class == "" {
		return ""
	}
	addr, err := strconv.ParseUint(obj.Class, 0, 64)
	if err != nil {
		return ""
	}
	cls := s.graph.Lookup(graph.ObjID(addr))
	if cls == nil {
		return ""
	}
	return cls.Name
}

func (s *Shell) cmdPrint(args string) {
	obj := s.parseAddr(args)
	if obj == nil {
		return
	}
	s.out.With(func(w io.Writer) {
		if obj.IsRoot {
			fmt.Fprintf(w, "ROOT (%s)\n", obj.Name)
		} else {
			fmt.Fprintf(w, "0x%x: %s\n", uint64(obj.ID), obj.Type)
			if cls := s.className(obj); cls != "" {
				fmt.Fprintf(w, "      class: %s (%s)\n", cls, obj.Class)
			}
			if obj.Name != "" {
				fmt.Fprintf(w, "      value: %q\n", obj.Name)
			}
			fmt.Fprintf(w, "    memsize: %s bytes\n", output.Comma(obj.Size))
		}
		fmt.Fprintf(w, " references: %s\n", output.Comma(uint64(len(obj.Refs))))
		for _, ref := range obj.Refs {
			if target := s.graph.Lookup(ref); target != nil {
				fmt.Fprintf(w, "  %s\n", s.describe(target))
			} else {
				fmt.Fprintf(w, "  0x%x: (not in snapshot)\n", uint64(ref))
			}
		}
	})
}

func (s *Shell) cmdIdom(args string) {
	obj := s.parseAddr(args)
	if obj == nil {
		return
	}
	addr := uint64(obj.ID)
	idom, err := s.graph.ImmediateDominator(obj.ID)
	switch {
	case errors.Is(err, graph.ErrIsRoot):
		s.printf("error: 0x%x is a GC root\n", addr)
	case errors.Is(err, graph.ErrUnreachable):
		s.printf("error: 0x%x is unreachable from any root\n", addr)
	case errors.Is(err, graph.ErrNoDominator):
		s.printf("could not determine dominator for 0x%x\n", addr)
	case err != nil:
		s.printf("error: %v\n", err)
	default:
		s.out.With(func(w io.Writer) {
			fmt.Fprintf(w, "dominator for 0x%x:\n", addr)
			fmt.Fprintf(w, "  %s\n", s.describe(s.graph.Lookup(idom)))
		})
	}
}

func (s *Shell) cmdDominators(args string) {
	obj := s.parseAddr(args)
	if obj == nil {
		return
	}
	addr := uint64(obj.ID)
	dominated, err := s.graph.DominatedSet(obj.ID)
	if errors.Is(err, graph.ErrUnreachable) {
		s.printf("error: 0x%x is unreachable from any root\n", addr)
		return
	}
	if err != nil {
		s.printf("error: %v\n", err)
		return
	}
	s.out.With(func(w io.Writer) {
		if len(dominated) == 0 {
			fmt.Fprintf(w, "0x%x does not dominate any objects\n", addr)
			return
		}
		fmt.Fprintf(w, "0x%x dominates:\n", addr)
		for _, id := range dominated {
			fmt.Fprintf(w, "  %s\n", s.describe(s.graph.Lookup(id)))
		}
	})
}

func (s *Shell) cmdRootPath(args string) {
	obj := s.parseAddr(args)
	if obj == nil {
		return
	}
	addr := uint64(obj.ID)
	path, err := s.graph.RootPath(obj.ID)
	if errors.Is(err, graph.ErrNoPath) {
		s.printf("error: could not find path to root for 0x%x\n", addr)
		return
	}
	if err != nil {
		s.printf("error: %v\n", err)
		return
	}
	s.out.With(func(w io.Writer) {
		fmt.Fprintf(w, "root path to 0x%x:\n", addr)
		for _, id := range path {
			fmt.Fprintf(w, "  %s\n", s.describe(s.graph.Lookup(id)))
		}
	})
}

func (s *Shell) cmdSummary(string) {
	sum := s.graph.Summarize()

	type row struct {
		tag  graph.TypeTag
		stat graph.TypeStat
	}
	rows := make([]row, 0, len(sum.Types))
	for tag, stat := range sum.Types {
		rows = append(rows, row{tag, stat})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].stat.Bytes != rows[j].stat.Bytes {
			return rows[i].stat.Bytes > rows[j].stat.Bytes
		}
		return rows[i].tag.String() < rows[j].tag.String()
	})

	s.out.With(func(w io.Writer) {
		fmt.Fprintf(w, "total objects: %s\n", output.Comma(uint64(sum.Objects)))
		fmt.Fprintf(w, "total heap memsize: %s bytes\n", output.Comma(sum.TotalBytes))
		for _, r := range rows {
			fmt.Fprintf(w, "  %s: %s bytes (%s objects)\n",
				r.tag, output.Comma(r.stat.Bytes), output.Comma(uint64(r.stat.Count)))
		}
	})
}

func (s *Shell) cmdDiff(args string) {
	if args == "" {
		s.printf("error: you must specify a heap dump file\n")
		return
	}
	in, err := os.Open(args)
	if err != nil {
		s.printf("unable to open %s: %v\n", args, err)
		return
	}
	defer in.Close()

	tmp, err := os.CreateTemp("", "harb_diff-*.json")
	if err != nil {
		s.printf("unable to create tempfile: %v\n", err)
		return
	}
	defer tmp.Close()

	n, err := heapdump.Diff(s.graph, in, tmp)
	if err != nil {
		s.printf("error: diff against %s failed: %v\n", args, err)
		return
	}
	s.log.Info("diff complete",
		zap.String("dump", args),
		zap.Int("new_objects", n),
		zap.String("out", tmp.Name()),
	)
	s.printf("%s new objects written to %s\n", output.Comma(uint64(n)), tmp.Name())
}
