// Command obby inspects and unpacks .obby plugin archives.
//
// Usage:
//
//	obby list <archive>
//	obby info <archive>
//	obby cat <archive> <entry>
//	obby json <archive>
//	obby unpack [-C dir] [-v] <archive>...
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	obby "github.com/0xnim/obsidian-lib"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "list":
		err = runList(args)
	case "info":
		err = runInfo(args)
	case "cat":
		err = runCat(args)
	case "json":
		err = runJSON(args)
	case "unpack":
		err = runUnpack(args)
	default:
		usage()
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: obby <list|info|cat|json|unpack> [args]")
	os.Exit(2)
}

func runList(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: obby list <archive>")
	}
	a, err := obby.Open(args[0])
	if err != nil {
		return err
	}
	defer a.Close()

	names := a.ListEntries()
	sort.Strings(names)
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runInfo(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: obby info <archive>")
	}
	a, err := obby.Open(args[0])
	if err != nil {
		return err
	}
	defer a.Close()

	meta := a.Metadata()
	fmt.Printf("API Version:    %s\n", meta.APIVersion)
	fmt.Printf("Content Digest: %s\n", meta.ContentDigest)
	fmt.Printf("Signed:         %t\n", meta.Signed)
	fmt.Printf("Data Length:    %d\n", meta.DeclaredDataLength)
	fmt.Printf("Plugin:         %s %s\n", meta.PluginID, meta.PluginVersion)
	fmt.Println("Entries:")
	for e := range a.Entries() {
		state := "stored"
		if e.Compressed() {
			state = "deflate"
		}
		fmt.Printf("  %-40s %10d -> %10d  %s\n", e.Name, e.DataSize, e.OriginalSize, state)
	}
	return nil
}

func runCat(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: obby cat <archive> <entry>")
	}
	a, err := obby.Open(args[0])
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := a.ExtractEntry(args[1])
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runJSON(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: obby json <archive>")
	}
	text, err := obby.ExtractPluginJSON(args[0])
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func runUnpack(args []string) error {
	fset := flag.NewFlagSet("unpack", flag.ExitOnError)
	outDir := fset.String("C", ".", "directory to unpack into")
	verbose := fset.Bool("v", false, "log extraction progress")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() == 0 {
		return fmt.Errorf("usage: obby unpack [-C dir] [-v] <archive>...")
	}

	var logger *slog.Logger
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	// One handle per archive; handles are independent even over the same
	// path, so archives unpack in parallel.
	var g errgroup.Group
	for _, path := range fset.Args() {
		g.Go(func() error {
			return unpackArchive(path, *outDir, logger)
		})
	}
	return g.Wait()
}

func unpackArchive(path, outDir string, logger *slog.Logger) error {
	var opts []obby.Option
	if logger != nil {
		opts = append(opts, obby.WithLogger(logger.With("archive", path)))
	}
	a, err := obby.Open(path, opts...)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer a.Close()

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	root := filepath.Join(outDir, base)
	for e := range a.Entries() {
		if !fs.ValidPath(e.Name) {
			return fmt.Errorf("%s: entry name %q escapes the output directory", path, e.Name)
		}
		data, err := a.ExtractEntry(e.Name)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		dest := filepath.Join(root, filepath.FromSlash(e.Name))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
