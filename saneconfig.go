package vfscore

import (
	"os"
	"path/filepath"
	"strings"

	"vfscore/internal/logging"
)

var saneConfigLogger = logging.GetLogger().WithPrefix("saneconfig")

// SetSaneConfig is a convenience composition over the core API (spec.md
// §1, §6): it is not itself part of the core and touches no core
// invariant directly, calling only AddToSearchPath/SetWriteDir/platform
// primitives. It sets the write dir to userDir/.appName (creating it if
// necessary), then adds the base dir to the search path along with any
// archives matching archiveExt found directly inside it, optionally also
// scanning and adding detected removable-media roots.
//
// archivesFirst resolves the ambiguity in physfs.c's PHYSFS_setSaneConfig
// (spec.md §9, a two-argument call to a one-argument function): this
// implementation always adds the base dir itself, and archivesFirst
// controls only whether archives found inside it precede or follow it in
// the resulting search path.
func SetSaneConfig(v *VFS, appName, archiveExt string, includeCdRoms, archivesFirst bool) error {
	if !v.Initialized() {
		return newErr("setSaneConfig", appName, ErrNotInitialized)
	}
	if appName == "" {
		return newErr("setSaneConfig", appName, ErrInvalidArgument)
	}

	writeDir := filepath.Join(v.UserDir(), "."+appName)
	if err := v.platform.MkdirAll(writeDir); err != nil {
		return newErr("setSaneConfig", appName, ErrNoDirCreate)
	}
	if err := v.SetWriteDir(writeDir); err != nil {
		return err
	}

	archives := findArchives(v.BaseDir(), archiveExt)

	addBaseAndArchives := func() error {
		if archivesFirst {
			for _, a := range archives {
				if err := v.AddToSearchPath(a, true); err != nil {
					return err
				}
			}
		}
		if err := v.AddToSearchPath(v.BaseDir(), true); err != nil {
			return err
		}
		if !archivesFirst {
			for _, a := range archives {
				if err := v.AddToSearchPath(a, true); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := addBaseAndArchives(); err != nil {
		return err
	}

	if includeCdRoms {
		for _, dir := range v.CdRomDirs() {
			if err := v.AddToSearchPath(dir, true); err != nil {
				saneConfigLogger.Warn("could not add cd-rom dir %q: %v", dir, err)
				continue
			}
			for _, a := range findArchives(dir, archiveExt) {
				if err := v.AddToSearchPath(a, true); err != nil {
					saneConfigLogger.Warn("could not add cd-rom archive %q: %v", a, err)
				}
			}
		}
	}

	saneConfigLogger.Info("sane config applied for %q", appName)
	return nil
}

// findArchives scans dir (non-recursively) for entries whose extension
// matches ext, case-insensitively.
func findArchives(dir, ext string) []string {
	if dir == "" || ext == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	want := strings.ToLower(strings.TrimPrefix(ext, "."))
	var found []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		got := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		if got == want {
			found = append(found, filepath.Join(dir, name))
		}
	}
	return found
}
