// Package common holds the flag and process plumbing shared by the lfr-* tools.
package common

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ScottSallinen/lfrbench/external"
	"github.com/ScottSallinen/lfrbench/generator"
	"github.com/ScottSallinen/lfrbench/utils"
)

// ExtractGraphName is the file name of a network without directory and network suffix.
func ExtractGraphName(graphFilename string) (graphName string) {
	base := filepath.Base(generator.BasePath(graphFilename))
	if base == filepath.Base(graphFilename) {
		if dot := strings.LastIndexByte(base, '.'); dot > 0 {
			return base[:dot]
		}
	}
	return base
}

type LogOptions struct {
	debugPtr  *int
	colourPtr *bool
}

// LogFlags registers -debug and -nc; call Apply after flag.Parse.
func LogFlags() *LogOptions {
	return &LogOptions{
		debugPtr:  flag.Int("debug", 0, "Adds extra debug output. Level 0 for info, 1 for debug, 2 for trace."),
		colourPtr: flag.Bool("nc", false, "Removes the colouring from the log output."),
	}
}

func (o *LogOptions) Apply() {
	utils.ApplyLogFlags(*o.debugPtr, *o.colourPtr)
}

// Binaries of the native tools, relative to the working directory by default.
type Binaries struct {
	OrigPtr    *string
	EMPtr      *string
	InfomapPtr *string
	TimePtr    *bool
}

// BinaryFlags registers the binary locations and -time (defaulting to timed) on the command line.
func BinaryFlags(timed bool) *Binaries {
	return BinaryFlagSet(flag.CommandLine, timed)
}

func BinaryFlagSet(fs *flag.FlagSet, timed bool) *Binaries {
	return &Binaries{
		OrigPtr:    fs.String("benchmark", "related_work/binary_networks/benchmark", "Reference LFR benchmark binary."),
		EMPtr:      fs.String("palfr", "release/pa_lfr", "External-memory LFR generator binary."),
		InfomapPtr: fs.String("infomap", "related_work/infomap/Infomap", "Infomap binary."),
		TimePtr:    fs.Bool("time", timed, "Run native tools under /usr/bin/time -av."),
	}
}

func (b *Binaries) TimeWrapper() []string {
	if *b.TimePtr {
		return external.DefaultTimeWrapper
	}
	return nil
}

// SignalContext is cancelled on the first SIGINT or SIGTERM, which also stops any running native tool.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Filter runs fn over the named files concatenated (stdin when there are none) and writes its output to w.
func Filter(names []string, w io.Writer, fn func(io.Reader, io.Writer) error) error {
	r, closeAll, err := utils.InputReader(names)
	if err != nil {
		return err
	}
	defer closeAll()
	bw := bufio.NewWriter(w)
	return errors.Join(fn(r, bw), bw.Flush())
}
