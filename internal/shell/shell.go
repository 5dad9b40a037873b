// Package shell runs the line-oriented command protocol over a Store:
//
//	LOAD <file>          BUILD <series>       LIST <country name>
//	RANGE <series>       FIND <mean> <op>     DELETE <country name>
//	LIMITS <which>       LOOKUP <code>        REMOVE <code>
//	INSERT <code> <file> EXIT
//
// Replies are "success", "failure" or the query result on one line. LOAD and
// BUILD stay silent when they fail.
package shell

import (
	"bufio"
	"countrystore/internal/engine"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/valyala/fasttemplate"
	"go.uber.org/zap"
)

const (
	replySuccess = "success"
	replyFailure = "failure"

	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

var (
	lookupTmpl = fasttemplate.New("index {{index}} searches {{searches}}", "{{", "}}")
	listTmpl   = fasttemplate.New("{{name}} {{code}}{{series}}", "{{", "}}")
)

// Shell reads commands and writes one reply line per command that has one.
type Shell struct {
	store *engine.Store
	out   io.Writer

	// Prompt is written before each command when non-empty.
	Prompt string
	// Color marks failures in red.
	Color bool

	Logger *zap.Logger
}

func New(store *engine.Store, out io.Writer) *Shell {
	return &Shell{store: store, out: out, Logger: zap.NewNop()}
}

// Run processes commands from in until EXIT or end of input.
func (s *Shell) Run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		if s.Prompt != "" {
			fmt.Fprint(s.out, s.Prompt)
		}
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		if strings.ToUpper(cmd) == "EXIT" {
			return nil
		}
		s.Exec(strings.ToUpper(cmd), rest)
	}
	return sc.Err()
}

// Exec runs one command with its unparsed argument text.
func (s *Shell) Exec(cmd, args string) {
	fields := strings.Fields(args)
	arg := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	switch cmd {
	case "LOAD":
		_, err := s.store.LoadFile(arg(0))
		if err == nil || errors.Is(err, engine.ErrCapacityExhausted) {
			s.reply(replySuccess)
		} else {
			s.Logger.Warn("load failed", zap.Error(err))
		}

	case "BUILD":
		if _, err := s.store.Build(arg(0)); err == nil {
			s.reply(replySuccess)
		}

	case "LIST":
		info, err := s.store.Describe(args)
		if err != nil {
			s.reply(replyFailure)
			return
		}
		var series strings.Builder
		for _, name := range info.Series {
			series.WriteByte(' ')
			series.WriteString(name)
		}
		s.reply(listTmpl.ExecuteString(map[string]interface{}{
			"name":   info.Name,
			"code":   info.Code,
			"series": series.String(),
		}))

	case "RANGE":
		lo, hi, err := s.store.Range()
		if err != nil {
			s.reply(replyFailure)
			return
		}
		s.reply(formatFloat(lo) + " " + formatFloat(hi))

	case "FIND":
		value, err := strconv.ParseFloat(arg(0), 64)
		if err != nil {
			s.reply(replyFailure)
			return
		}
		rel, err := engine.ParseRelation(arg(1))
		if err != nil {
			s.reply(replyFailure)
			return
		}
		s.names(s.store.Threshold(value, rel))

	case "DELETE":
		s.result(s.store.RemoveByName(args))

	case "LIMITS":
		which, err := engine.ParseExtreme(arg(0))
		if err != nil {
			s.reply(replyFailure)
			return
		}
		s.names(s.store.Extremes(which))

	case "LOOKUP":
		slot, probes := s.store.Search(arg(0))
		if slot == -1 {
			s.reply(replyFailure)
			return
		}
		s.reply(lookupTmpl.ExecuteString(map[string]interface{}{
			"index":    strconv.Itoa(slot),
			"searches": strconv.Itoa(probes),
		}))

	case "REMOVE":
		s.result(s.store.Remove(arg(0)))

	case "INSERT":
		ds, err := engine.ReadDataset(arg(1))
		if err != nil {
			s.Logger.Warn("insert source unreadable", zap.Error(err))
			s.reply(replyFailure)
			return
		}
		err = s.store.Insert(arg(0), ds.Rows)
		if err != nil {
			s.Logger.Debug("insert failed", zap.Error(err))
		}
		s.result(err == nil)

	default:
		s.Logger.Debug("unknown command", zap.String("command", cmd))
	}
}

func (s *Shell) names(names []string, err error) {
	if err != nil {
		s.reply(replyFailure)
		return
	}
	s.reply(strings.Join(names, " "))
}

func (s *Shell) result(ok bool) {
	if ok {
		s.reply(replySuccess)
	} else {
		s.reply(replyFailure)
	}
}

func (s *Shell) reply(line string) {
	if s.Color && line == replyFailure {
		line = ansiRed + line + ansiReset
	}
	fmt.Fprintln(s.out, line)
}

// formatFloat keeps six significant digits.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
