// Package update checks GitHub releases and replaces the running binary.
package update

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"
	"go.uber.org/zap"
)

// DefaultRepo is the release repository slug.
const DefaultRepo = "mafqudat/mafqudat"

// ErrDevBuild is returned by Apply for builds without a release version.
var ErrDevBuild = errors.New("development build cannot self-update")

// Result holds the outcome of an update check or apply.
type Result struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
	Applied         bool
}

// Updater talks to one release repository.
type Updater struct {
	Repo string
	Log  *zap.Logger
}

// New returns an Updater for repo ("owner/name"). Empty means DefaultRepo.
func New(repo string, log *zap.Logger) *Updater {
	if repo == "" {
		repo = DefaultRepo
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Updater{Repo: repo, Log: log}
}

// IsDevBuild reports whether version is a local build rather than a
// release, e.g. "" or "dev".
func IsDevBuild(version string) bool {
	_, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	return err != nil
}

// Newer reports whether latest is a later release than current. A current
// version that is not semver is older than any release.
func Newer(current, latest string) bool {
	l, err := semver.NewVersion(latest)
	if err != nil {
		return false
	}
	c, err := semver.NewVersion(current)
	if err != nil {
		return true
	}
	return l.GreaterThan(c)
}

func (u *Updater) detect(ctx context.Context) (*selfupdate.Updater, *selfupdate.Release, bool, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, nil, false, fmt.Errorf("creating github source: %w", err)
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source: source,
		OS:     runtime.GOOS,
		Arch:   runtime.GOARCH,
	})
	if err != nil {
		return nil, nil, false, fmt.Errorf("creating updater: %w", err)
	}

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(u.Repo))
	if err != nil {
		return nil, nil, false, fmt.Errorf("checking for updates: %w", err)
	}
	return updater, latest, found, nil
}

// Check reports whether a newer release exists. It does not download
// anything.
func (u *Updater) Check(ctx context.Context, currentVersion string) (*Result, error) {
	_, latest, found, err := u.detect(ctx)
	if err != nil {
		return nil, err
	}
	res := &Result{CurrentVersion: currentVersion}
	if found {
		res.LatestVersion = latest.Version()
		res.UpdateAvailable = Newer(currentVersion, res.LatestVersion)
	}
	u.Log.Debug("update check",
		zap.String("repo", u.Repo),
		zap.String("current", currentVersion),
		zap.String("latest", res.LatestVersion))
	return res, nil
}

// Apply downloads and installs the latest release over the current
// binary, if it is newer.
func (u *Updater) Apply(ctx context.Context, currentVersion string) (*Result, error) {
	if IsDevBuild(currentVersion) {
		return nil, ErrDevBuild
	}
	updater, latest, found, err := u.detect(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{CurrentVersion: currentVersion}
	if !found {
		return res, nil
	}
	res.LatestVersion = latest.Version()
	if !Newer(currentVersion, res.LatestVersion) {
		return res, nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return nil, fmt.Errorf("finding executable path: %w", err)
	}
	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return nil, fmt.Errorf("applying update: %w", err)
	}

	res.UpdateAvailable = true
	res.Applied = true
	u.Log.Info("updated", zap.String("from", currentVersion), zap.String("to", res.LatestVersion))
	return res, nil
}
