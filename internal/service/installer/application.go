package installer

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ilisfairy/mcl-installer/internal/archive"
	"github.com/ilisfairy/mcl-installer/internal/launcher"
	"github.com/ilisfairy/mcl-installer/internal/logger"
	"github.com/ilisfairy/mcl-installer/internal/manifest"
	"github.com/ilisfairy/mcl-installer/internal/progress"
)

const jarManifestEntry = "META-INF/MANIFEST.MF"

// JarVersion is the version stamped into mcl.jar, e.g. 2.1.2-20230101.
type JarVersion struct {
	Major    string
	Revision string
}

// ParseJarVersion reads the Version attribute of a jar manifest.
func ParseJarVersion(jarManifest []byte) (JarVersion, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(jarManifest))

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		value, found := strings.CutPrefix(line, "Version: ")
		if !found {
			continue
		}

		value = strings.TrimSpace(value)
		if value == "" {
			return JarVersion{}, false
		}

		major, revision, _ := strings.Cut(value, "-")

		return JarVersion{Major: major, Revision: revision}, true
	}

	return JarVersion{}, false
}

// detectInstalledMCL reports an existing mcl.jar. Unreadable jars are ignored.
func (r *runner) detectInstalledMCL(ctx context.Context) (JarVersion, bool) {
	data, err := archive.ReadZipEntry(r.path(jarName), jarManifestEntry)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.DebugKV(ctx, "No readable mcl.jar", "error", err)
		}

		return JarVersion{}, false
	}

	installed, ok := ParseJarVersion(data)
	if !ok {
		return JarVersion{}, false
	}

	r.say("iTXTech Mirai Console Loader detected.")
	r.say("Major Version: %s Revision: %s", installed.Major, installed.Revision)
	r.say("")

	return installed, true
}

// installApplication runs the application leg. When patchScript is set the
// launch script is rewritten to use javaPath.
func (r *runner) installApplication(ctx context.Context, javaPath string, patchScript bool) error {
	ctx = logger.WithName(ctx, "application")

	installed, hasInstalled := r.detectInstalledMCL(ctx)

	repo := r.repo()

	r.say("Fetching iTXTech MCL Package Info from %s", manifest.URL(repo))

	pkg, err := manifest.Fetch(ctx, r.client, repo)
	if err != nil {
		return err
	}

	if text := pkg.AnnouncementText(); text != "" {
		r.say("%s", text)
	}

	latest, err := manifest.ResolveVersion(pkg, manifest.StableChannel)
	if err != nil {
		return err
	}

	if ordering := manifest.CheckOrdering(pkg.Channels[manifest.StableChannel]); !ordering.Consistent() {
		logger.WarnKV(ctx, "Stable channel is not in ascending order, installing its last entry",
			"latest", ordering.Latest, "highest", ordering.Highest)
	}

	r.say("The latest stable version of iTXTech MCL is %s", latest)

	if hasInstalled && !manifest.IsNewer(latest, installed.Major) {
		r.say("The installed version %s is up to date.", installed.Major)
	}

	download, err := r.prompter.YesNo("Would you like to download it?", true)
	if err != nil || !download {
		return err
	}

	url, err := manifest.ResolveArchiveURL(pkg, latest)
	if err != nil {
		return err
	}

	archivePath := r.path(appArchiveName)
	if err = r.download(ctx, url, archivePath); err != nil {
		return err
	}

	err = progress.Track(ctx, r.renderer, func(ctx context.Context, report progress.Reporter) error {
		return archive.ExtractInPlace(ctx, archivePath, r.workDir, extractionReporter(report))
	})
	if err != nil {
		return err
	}

	if patchScript {
		if err = r.patchScript(ctx, javaPath); err != nil {
			return err
		}
	}

	if r.tag.IsWindows() {
		r.say(`Use ".\%s" to start MCL.`, strings.TrimSuffix(r.tag.ScriptName(), ".cmd"))
	} else {
		r.say(`Use "./%s" to start MCL.`, r.tag.ScriptName())
	}

	r.say("")

	return nil
}

func (r *runner) patchScript(ctx context.Context, javaPath string) error {
	script := r.path(r.tag.ScriptName())
	if _, err := os.Stat(script); err != nil {
		logger.WarnKV(ctx, "Launch script not found, leaving it untouched", "path", script)
		r.say("MCL startup script %s was not found, it was not updated.", r.tag.ScriptName())
		r.say("Set JAVA_BINARY to %q before starting MCL.", javaPath)

		return nil
	}

	if err := launcher.PatchRuntimeReference(script, javaPath, launcher.StyleFor(r.tag)); err != nil {
		return fmt.Errorf("update launch script: %w", err)
	}

	r.say("MCL startup script has been updated.")

	return nil
}
