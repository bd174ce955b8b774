package upgrade

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/valen-cli/valen/internal/messages"
)

var (
	versionPattern    = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:-([0-9A-Za-z.-]+))?$`)
	appNamePattern    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	appPackagePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(\.[A-Za-z][A-Za-z0-9_]*)+$`)
)

// Request carries the parameters of one upgrade run. It is passed by value.
type Request struct {
	AppName        string
	AppPackage     string
	CurrentVersion string
	TargetVersion  string
}

// Validate checks that every field is present and well formed and that the
// target is newer than the current version.
func (r Request) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"app name", r.AppName},
		{"app package", r.AppPackage},
		{"current version", r.CurrentVersion},
		{"target version", r.TargetVersion},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: "+messages.UpgradeRequestMissingFmt, ErrInvalidRequest, f.name)
		}
	}
	if !appNamePattern.MatchString(r.AppName) {
		return fmt.Errorf("%w: "+messages.UpgradeRequestAppNameFmt, ErrInvalidRequest, r.AppName)
	}
	if !appPackagePattern.MatchString(r.AppPackage) {
		return fmt.Errorf("%w: "+messages.UpgradeRequestPackageFmt, ErrInvalidRequest, r.AppPackage)
	}
	if containsPlaceholder(r.AppName) {
		return fmt.Errorf("%w: "+messages.UpgradeRequestTokenFmt, ErrInvalidRequest, "app name", r.AppName, PlaceholderAppName)
	}
	if strings.Contains(strings.ToLower(r.AppPackage), PlaceholderLower) {
		return fmt.Errorf("%w: "+messages.UpgradeRequestTokenFmt, ErrInvalidRequest, "app package", r.AppPackage, PlaceholderLower)
	}
	cmp, err := CompareVersions(r.CurrentVersion, r.TargetVersion)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if cmp >= 0 {
		return fmt.Errorf("%w: "+messages.UpgradeRequestNotNewerFmt, ErrInvalidRequest, r.TargetVersion, r.CurrentVersion)
	}
	return nil
}

// BranchName returns the working branch for the upgrade.
func (r Request) BranchName() string {
	return "upgrade-" + r.CurrentVersion + "-to-" + r.TargetVersion
}

// Substituter returns the placeholder substitution for this request.
func (r Request) Substituter() Substituter {
	return Substituter{AppName: r.AppName, AppPackage: r.AppPackage}
}

// NormalizeVersion strips npm range operators and a leading v from a version spec.
func NormalizeVersion(spec string) string {
	return strings.TrimLeft(strings.TrimSpace(spec), "^~=v ")
}

type semver struct {
	core [3]int
	pre  string
}

func parseVersion(raw string) (semver, error) {
	m := versionPattern.FindStringSubmatch(raw)
	if m == nil {
		return semver{}, fmt.Errorf(messages.UpgradeInvalidVersionFmt, raw)
	}
	var v semver
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return semver{}, fmt.Errorf(messages.UpgradeInvalidVersionFmt, raw)
		}
		v.core[i] = n
	}
	v.pre = m[4]
	return v, nil
}

// CompareVersions returns -1, 0 or 1 comparing a to b. A pre-release sorts
// before its release.
func CompareVersions(a string, b string) (int, error) {
	va, err := parseVersion(a)
	if err != nil {
		return 0, err
	}
	vb, err := parseVersion(b)
	if err != nil {
		return 0, err
	}
	for i := 0; i < 3; i++ {
		if va.core[i] != vb.core[i] {
			if va.core[i] < vb.core[i] {
				return -1, nil
			}
			return 1, nil
		}
	}
	switch {
	case va.pre == vb.pre:
		return 0, nil
	case va.pre == "":
		return 1, nil
	case vb.pre == "":
		return -1, nil
	}
	return comparePrerelease(va.pre, vb.pre), nil
}

func comparePrerelease(a string, b string) int {
	pa := strings.Split(a, ".")
	pb := strings.Split(b, ".")
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] == pb[i] {
			continue
		}
		na, errA := strconv.Atoi(pa[i])
		nb, errB := strconv.Atoi(pb[i])
		switch {
		case errA == nil && errB == nil:
			if na < nb {
				return -1
			}
			return 1
		case errA == nil:
			return -1
		case errB == nil:
			return 1
		case pa[i] < pb[i]:
			return -1
		default:
			return 1
		}
	}
	switch {
	case len(pa) < len(pb):
		return -1
	case len(pa) > len(pb):
		return 1
	}
	return 0
}
