package main

import (
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/blobkit/blobkit"
	"github.com/blobkit/blobkit/lifecycle"
	"github.com/blobkit/blobkit/recovery"
	"github.com/blobkit/blobkit/registry"
)

func main() {
	var (
		load        = flag.String("load", "", "Files to load as blobs (comma-separated)")
		owner       = flag.String("owner", "blobctl", "Owner id for loaded handles")
		stats       = flag.Bool("stats", false, "Print registry stats and exit")
		verify      = flag.Bool("verify", false, "Fetch every handle back after loading")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *load == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: blobctl -load <file,...> [-owner id] [-stats] [-verify]")
		fmt.Fprintln(os.Stderr, "       blobctl [-load <file,...>] -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: %v\n", err)
			os.Exit(1)
		}
		lifecycle.SetLogger(l)
		recovery.SetLogger(l)
	}

	mgr := lifecycle.New(lifecycle.Config{})
	defer mgr.TeardownAll()

	var files []string
	if *load != "" {
		files = strings.Split(*load, ",")
	}
	handles, err := loadFiles(mgr, *owner, files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(mgr, *owner); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	for path, h := range handles {
		fmt.Printf("%s -> %s\n", path, h)
	}

	if *verify {
		for path, h := range handles {
			data, err := mgr.Fetch(h)
			if err != nil {
				fmt.Fprintf(os.Stderr, "verify %s: %v\n", path, err)
				os.Exit(1)
			}
			fmt.Printf("verified %s (%d bytes)\n", h, len(data))
		}
	}

	if *stats {
		printStats(mgr)
	}
}

func loadFiles(mgr *lifecycle.Manager, owner string, paths []string) (map[string]registry.Handle, error) {
	handles := make(map[string]registry.Handle, len(paths))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		h, err := mgr.Create(blobkit.Resource{
			Data: data,
			MIME: mimeFor(path),
			Meta: map[string]string{"source": path},
		}, owner)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		handles[path] = h
	}
	return handles, nil
}

func mimeFor(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func printStats(mgr *lifecycle.Manager) {
	s := mgr.GlobalStats()
	fmt.Printf("\nactive handles: %d (%d bytes)\n", s.TotalCount, s.TotalBytes)

	owners := make([]string, 0, len(s.PerOwner))
	for o := range s.PerOwner {
		owners = append(owners, o)
	}
	sort.Strings(owners)
	for _, o := range owners {
		g := s.PerOwner[o]
		fmt.Printf("  owner %-20s %3d handles %8d bytes\n", o, g.Count, g.Bytes)
	}

	mimes := make([]string, 0, len(s.PerMIME))
	for m := range s.PerMIME {
		mimes = append(mimes, m)
	}
	sort.Strings(mimes)
	for _, m := range mimes {
		g := s.PerMIME[m]
		fmt.Printf("  mime  %-20s %3d handles %8d bytes\n", m, g.Count, g.Bytes)
	}
}
