package upgrade

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/valen-cli/valen/internal/messages"
)

// Project describes a detected React Native project and the defaults it suggests.
type Project struct {
	Root               string
	ReactNativeVersion string
	AppName            string
	AppPackage         string
	// Scaffold lists the optional entry files that were found.
	Scaffold []string
}

var requiredManifests = []string{"package.json", "app.json"}

var scaffoldFiles = []string{"App.js", "App.tsx", "index.js", "metro.config.js", "babel.config.js", "react-native.config.js"}

var gradleIDPattern = regexp.MustCompile(`(?m)^\s*(?:applicationId|namespace)\s*[= ]\s*["']([A-Za-z0-9_.]+)["']`)

type packageManifest struct {
	Dependencies map[string]string `json:"dependencies"`
}

type appManifest struct {
	Name string `json:"name"`
	Expo *struct {
		Name string `json:"name"`
	} `json:"expo"`
}

// DetectProject checks root for package.json and app.json with a
// react-native dependency. Missing scaffold files are not an error.
func DetectProject(root string) (Project, error) {
	for _, name := range requiredManifests {
		if _, err := os.Stat(filepath.Join(root, name)); err != nil {
			return Project{}, fmt.Errorf("%w: "+messages.UpgradeMissingManifestFmt, ErrNotReactNativeProject, name)
		}
	}

	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return Project{}, fmt.Errorf(messages.UpgradeReadManifestFmt, "package.json", err)
	}
	var pkg packageManifest
	if err := json.Unmarshal(data, &pkg); err != nil {
		return Project{}, fmt.Errorf("%w: "+messages.UpgradeParseManifestFmt, ErrNotReactNativeProject, "package.json", err)
	}
	rnVersion, ok := pkg.Dependencies["react-native"]
	if !ok || rnVersion == "" {
		return Project{}, fmt.Errorf("%w: "+messages.UpgradeMissingDependency, ErrNotReactNativeProject)
	}

	project := Project{Root: root, ReactNativeVersion: NormalizeVersion(rnVersion)}

	if data, err := os.ReadFile(filepath.Join(root, "app.json")); err == nil {
		var app appManifest
		if json.Unmarshal(data, &app) == nil {
			project.AppName = app.Name
			if project.AppName == "" && app.Expo != nil {
				project.AppName = app.Expo.Name
			}
		}
	}
	project.AppPackage = detectAndroidPackage(root)

	for _, name := range scaffoldFiles {
		if _, err := os.Stat(filepath.Join(root, name)); err == nil {
			project.Scaffold = append(project.Scaffold, name)
		}
	}
	return project, nil
}

func detectAndroidPackage(root string) string {
	for _, name := range []string{"build.gradle", "build.gradle.kts"} {
		data, err := os.ReadFile(filepath.Join(root, "android", "app", name))
		if err != nil {
			continue
		}
		if m := gradleIDPattern.FindSubmatch(data); m != nil {
			return string(m[1])
		}
	}
	return ""
}

// Defaults fills empty request fields from the detected project.
func (p Project) Defaults(req Request) Request {
	if req.AppName == "" {
		req.AppName = p.AppName
	}
	if req.AppPackage == "" {
		req.AppPackage = p.AppPackage
	}
	if req.CurrentVersion == "" {
		req.CurrentVersion = p.ReactNativeVersion
	}
	return req
}
