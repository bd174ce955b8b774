package messages

// CLI messages for commands, flags and top-level prompts.
const (
	// RootUse is the CLI command name.
	RootUse      = "valen"
	RootShort    = "React Native developer CLI"
	RootLong     = "Valen automates React Native project maintenance.\n\nRun `valen upgrade` to move a project to a newer React Native release."
	RootGetwdFmt = "resolve working directory: %w"

	FlagUpgrade        = "run the upgrade assistant in the given mode (web or auto)"
	FlagAppName        = "app name as used in native project files"
	FlagAppPackage     = "Android application package, e.g. com.example.app"
	FlagCurrentVersion = "React Native version the project is on (defaults to package.json)"
	FlagTargetVersion  = "React Native version to upgrade to (defaults to the latest release)"
	FlagYes            = "accept the default answer of every confirmation"
	FlagLogLevel       = "diagnostic log level: debug, info, warn or error"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"
	VersionUse       = "version"
	VersionShort     = "Print the Valen version"

	// UpgradeUse is the upgrade command usage line.
	UpgradeUse            = "upgrade [web|auto]"
	UpgradeShort          = "Upgrade the project to a newer React Native release"
	UpgradeLong           = "Upgrade the project to a newer React Native release.\n\nauto applies the release diff file by file on a dedicated git branch. A patch that does not apply\nis retried as an AI rewrite, then handed to your editor.\nweb opens the upgrade helper in your browser.\n\nWithout a mode, valen asks which one to run."
	UpgradeModeTitle      = "How do you want to upgrade?"
	UpgradeModeAuto       = "Auto upgrade with new branch"
	UpgradeModeWeb        = "Open in web browser"
	UpgradeModeCancel     = "Cancel"
	UpgradeCancelled      = "Upgrade cancelled."
	UpgradeUnknownModeFmt = "unknown upgrade mode %q (expected web or auto)"
	UpgradeAbortedExitFmt = "Upgrade stopped: %v\n"

	UpgradeInputAppName        = "App name"
	UpgradeInputAppPackage     = "Android package"
	UpgradeInputCurrentVersion = "Current React Native version"
	UpgradeInputTargetVersion  = "Target React Native version"

	CleanUse             = "clean"
	CleanShort           = "Remove the patch and preview scratch directories"
	CleanRemovedFmt      = "Removed %s\n"
	CleanRemoveFailedFmt = "remove %s: %w"
	CleanNothing         = "Nothing to clean."

	ConfigUse   = "config"
	ConfigShort = "Print the effective configuration"

	KeysUse                = "keys [provider]"
	KeysShort              = "Store an AI provider API key in .valen/.env"
	KeysNoProviders        = "no enabled provider takes an API key"
	KeysSelectProvider     = "Provider"
	KeysUnknownProviderFmt = "unknown provider %q (configured: %s)"
	KeysSecretTitleFmt     = "%s API key (%s)"
	KeysEmptyValue         = "API key must not be empty"
	KeysSavedFmt           = "Saved %s to %s\n"
)
