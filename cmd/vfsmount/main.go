// Command vfsmount mounts a vfscore search path + write dir as a real
// FUSE filesystem, the direct descendant of LachlanBridges-VMapFS's
// cmd/vmapfs binary.
package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"vfscore"
	_ "vfscore/internal/archive/zip" // registers the ZIP backend
	"vfscore/internal/logging"
	"vfscore/internal/mount"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var logger = logging.GetLogger()

type rootList []string

func (r *rootList) String() string { return strings.Join(*r, ",") }
func (r *rootList) Set(v string) error {
	*r = append(*r, v)
	return nil
}

func main() {
	mountPoint := flag.String("mount", "", "mount point for the virtual filesystem")
	appName := flag.String("app", "", "application name, used by -sane to pick a write dir")
	archiveExt := flag.String("archive-ext", "zip", "archive extension to auto-detect when -sane is set")
	sane := flag.Bool("sane", false, "use SetSaneConfig instead of -search/-write")
	includeCdRoms := flag.Bool("cdroms", false, "include removable media in the sane config search path")
	archivesFirst := flag.Bool("archives-first", false, "search dir-local archives before the base dir")
	writeDir := flag.String("write", "", "write dir (ignored if -sane is set)")
	verbose := flag.Bool("verbose", false, "enable debug logging")

	var roots rootList
	flag.Var(&roots, "search", "search path root to append (repeatable; ignored if -sane is set)")
	flag.Parse()

	if *verbose {
		logger.SetLevel(logging.LevelDebug)
	}

	if *mountPoint == "" {
		logger.Error("-mount is required")
		os.Exit(1)
	}

	v := vfscore.Default()
	if err := v.Init(os.Args[0]); err != nil {
		logger.Error("init failed: %v", err)
		os.Exit(1)
	}

	if *sane {
		if *appName == "" {
			logger.Error("-app is required with -sane")
			os.Exit(1)
		}
		if err := vfscore.SetSaneConfig(v, *appName, *archiveExt, *includeCdRoms, *archivesFirst); err != nil {
			logger.Error("sane config failed: %v", err)
			os.Exit(1)
		}
	} else {
		for _, root := range roots {
			if err := v.AddToSearchPath(root, true); err != nil {
				logger.Error("failed to add %q to search path: %v", root, err)
				os.Exit(1)
			}
		}
		if *writeDir != "" {
			if err := v.SetWriteDir(*writeDir); err != nil {
				logger.Error("failed to set write dir: %v", err)
				os.Exit(1)
			}
		}
	}

	cleanMount := filepath.Clean(*mountPoint)
	logger.Info("mounting at %q", cleanMount)

	c, err := fuse.Mount(cleanMount,
		fuse.FSName("vfscore"),
		fuse.Subtype("vfscore"),
		fuse.DefaultPermissions(),
	)
	if err != nil {
		logger.Error("mount failed: %v", err)
		os.Exit(1)
	}
	defer c.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := fusefs.Serve(c, mount.New(v)); err != nil {
			logger.Error("fuse server error: %v", err)
		}
	}()

	go func() {
		sig := <-sigChan
		logger.Info("received signal %v, unmounting", sig)
		if err := fuse.Unmount(cleanMount); err != nil {
			logger.Error("unmount error: %v", err)
		}
	}()

	wg.Wait()
	if err := v.Deinit(); err != nil {
		logger.Warn("deinit failed: %v", err)
	}
	logger.Info("clean shutdown complete")
}
