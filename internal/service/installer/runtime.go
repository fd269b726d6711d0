package installer

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/ilisfairy/mcl-installer/internal/adoptium"
	"github.com/ilisfairy/mcl-installer/internal/archive"
	"github.com/ilisfairy/mcl-installer/internal/domain/install"
	"github.com/ilisfairy/mcl-installer/internal/logger"
	"github.com/ilisfairy/mcl-installer/internal/platform"
	"github.com/ilisfairy/mcl-installer/internal/progress"
)

// javaExecutables are process names that may hold files under ./java open.
//
//nolint:gochecknoglobals // Read-only lookup table.
var javaExecutables = map[string]struct{}{
	"java":      {},
	"java.exe":  {},
	"javaw.exe": {},
}

// checkExistingRuntime prints the version of the Java that would be used
// today and reports whether ./java exists.
func (r *runner) checkExistingRuntime(ctx context.Context) bool {
	r.say("Checking existing Java installation.")

	javaDir := r.path(javaDirName)
	installed := dirExists(javaDir)

	binary := "java"
	if installed {
		binary = r.tag.JavaBinary(javaDir)
	}

	r.printJavaVersion(ctx, binary)

	if installed {
		r.say("Reinstall Java will delete the current installation.")
	}

	return installed
}

// findJava picks the runtime the launch script should use:
// ./java, then JAVA_HOME, then whatever java is on PATH.
func (r *runner) findJava() string {
	if javaDir := r.path(javaDirName); dirExists(javaDir) {
		return r.tag.JavaBinary(javaDir)
	}

	if home := os.Getenv("JAVA_HOME"); home != "" {
		return r.tag.JavaBinary(home)
	}

	return "java"
}

// printJavaVersion runs `<binary> -version`. Failures are not fatal: the
// runtime may simply be missing.
func (r *runner) printJavaVersion(ctx context.Context, binary string) {
	output, err := r.commands.Output(ctx, binary, "-version")
	if len(output) > 0 {
		_, _ = r.out.Write(output)
	}

	if err != nil {
		logger.WarnKV(ctx, "Java check failed", "binary", binary, "error", err)
	}
}

// runningJava lists java processes other than this one.
func (r *runner) runningJava() ([]ps.Process, error) {
	processes, err := r.procs()
	if err != nil {
		return nil, err
	}

	self := os.Getpid()

	var result []ps.Process

	for _, process := range processes {
		if process.Pid() == self {
			continue
		}

		if _, ok := javaExecutables[strings.ToLower(process.Executable())]; ok {
			result = append(result, process)
		}
	}

	return result, nil
}

// confirmNoRunningJava asks before replacing a runtime that may be in use.
func (r *runner) confirmNoRunningJava(ctx context.Context) bool {
	if !dirExists(r.path(javaDirName)) {
		return true
	}

	running, err := r.runningJava()
	if err != nil {
		logger.WarnKV(ctx, "Unable to list processes", "error", err)
		return true
	}

	if len(running) == 0 {
		return true
	}

	for _, process := range running {
		logger.WarnKV(ctx, "Java process is running", "pid", process.Pid(), "executable", process.Executable())
	}

	proceed, err := r.prompter.YesNo("Java is running and may be using the current installation. Reinstall anyway?", false)
	if err != nil || !proceed {
		r.say("Skipping Java installation.")
		return false
	}

	return true
}

// installRuntime runs the runtime leg and returns the installed java executable.
func (r *runner) installRuntime(ctx context.Context, replace bool) (string, error) {
	ctx = logger.WithName(ctx, "runtime")

	javaDir := r.path(javaDirName)

	if replace {
		r.say("Deleting %q.", javaDir)

		if err := os.RemoveAll(javaDir); err != nil {
			return "", fmt.Errorf("delete %s: %w: %w", javaDir, install.ErrFilesystem, err)
		}
	}

	req, err := r.askRuntime()
	if err != nil {
		return "", err
	}

	ctx = logger.WithKV(ctx, "major", req.Major, "kind", req.Kind, "arch", req.Platform.Arch)

	r.say("Fetching file list for %s version %d on %s from %s", req.Kind, req.Major, req.Platform.Arch, req.ListingURL())

	resolved, err := adoptium.Resolve(ctx, r.client, req)
	if err != nil {
		return "", err
	}

	logger.InfoKV(ctx, "Runtime archive resolved", "url", resolved.URL)

	archivePath := r.path(runtimeArchiveName)
	if err = r.download(ctx, resolved.URL, archivePath); err != nil {
		return "", err
	}

	unit := install.InstallUnit{
		ArchivePath:    archivePath,
		ExtractionRoot: r.workDir,
		FinalDir:       javaDirName,
	}

	if strings.HasSuffix(resolved.Name, ".tar.gz") {
		if unit.RootName, err = adoptium.RootDirName(resolved.Name, req.Kind); err != nil {
			// The first archive entry still names the root.
			logger.WarnKV(ctx, "Falling back to the archive's first entry", "error", err)
		}
	}

	var installed string

	err = progress.Track(ctx, r.renderer, func(ctx context.Context, report progress.Reporter) error {
		var installErr error

		installed, installErr = archive.InstallFrom(ctx, unit, extractionReporter(report))

		return installErr
	})
	if err != nil {
		return "", err
	}

	java := r.tag.JavaBinary(installed)

	r.say("Testing Java Executable: %s", java)
	r.printJavaVersion(ctx, java)
	r.say("")

	return java, nil
}

// askRuntime prompts for major version, kind and architecture.
func (r *runner) askRuntime() (adoptium.Request, error) {
	major, err := r.prompter.Int(fmt.Sprintf("Java version (%d-%d)", adoptium.MinMajor, adoptium.MaxMajor), adoptium.DefaultMajor)
	if err != nil {
		return adoptium.Request{}, err
	}

	choice, err := r.prompter.Int("JRE or JDK (1: JRE, 2: JDK)", 1)
	if err != nil {
		return adoptium.Request{}, err
	}

	kind := adoptium.KindJRE
	if choice == 2 { //nolint:mnd // Menu entry.
		kind = adoptium.KindJDK
	}

	answer, err := r.prompter.String("Binary Architecture", r.tag.Arch)
	if err != nil {
		return adoptium.Request{}, err
	}

	arch, err := platform.ParseArch(answer)
	if err != nil {
		r.say("%v, using %s.", err, r.tag.Arch)
		arch = r.tag.Arch
	}

	return adoptium.Request{
		Mirror:   r.mirror(),
		Major:    adoptium.NormalizeMajor(major),
		Kind:     kind,
		Platform: r.tag.WithArch(arch),
	}, nil
}

func extractionReporter(report progress.Reporter) archive.ProgressFunc {
	return func(percent float64) {
		report(progress.Update{Label: "extracting", Percent: percent})
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
