// Command sic compiles a shader-input-interface (.si) file into its HLSL
// device headers and C++ host headers.
//
// Usage:
//
//	sic [options] <input.si>
//
// Examples:
//
//	sic shaders/forward.si             # compile and write both backends
//	sic -hlsl-only shaders/forward.si  # only write HLSL output
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/mathijs727/sic"
	"github.com/mathijs727/sic/fswriter"
)

var (
	hlslOnly    = flag.Bool("hlsl-only", false, "only write HLSL device headers")
	hostOnly    = flag.Bool("host-only", false, "only write C++ host headers")
	quiet       = flag.Bool("quiet", false, "suppress the per-file write summary")
	versionFlag = flag.Bool("version", false, "print version")
)

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "dev"
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *versionFlag {
		fmt.Printf("sic version %s\n", version())
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}
	if *hlslOnly && *hostOnly {
		fmt.Fprintln(os.Stderr, "Error: -hlsl-only and -host-only are mutually exclusive")
		os.Exit(1)
	}

	if err := run(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(inputPath string) error {
	result, err := sic.CompileFile(inputPath)
	if err != nil {
		return err
	}

	var files []fswriter.File
	if !*hostOnly {
		for _, f := range result.HLSLFiles {
			files = append(files, fswriter.File{Path: f.Path, Contents: f.Contents})
		}
	}
	if !*hlslOnly {
		for _, f := range result.HostFiles {
			files = append(files, fswriter.File{Path: f.Path, Contents: f.Contents})
		}
	}

	writeResult, err := fswriter.Tree(files)
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if !*quiet {
		fmt.Printf("%s: %d file(s) written, %d unchanged\n", inputPath, len(writeResult.Written), len(writeResult.Skipped))
	}
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: sic [options] <input.si>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  sic shaders/forward.si             Compile both HLSL and host output\n")
	fmt.Fprintf(os.Stderr, "  sic -hlsl-only shaders/forward.si  Only write HLSL device headers\n")
}
