package messages

// Doctor messages for health checks and diagnostics.
const (
	DoctorUse            = "doctor"
	DoctorShort          = "Check the project, tools and AI providers used by upgrades"
	DoctorHealthCheckFmt = "🏥 Checking upgrade readiness in %s...\n"

	DoctorCheckNameProject   = "Project"
	DoctorCheckNameConfig    = "Config"
	DoctorCheckNameTools     = "Tools"
	DoctorCheckNameEditor    = "Editor"
	DoctorCheckNameProviders = "Providers"
	DoctorCheckNameScratch   = "Scratch"

	DoctorProjectFoundFmt          = "React Native %s project"
	DoctorProjectRecommend         = "Run valen from the root of a React Native project (the directory with package.json and app.json)."
	DoctorProjectIdentityFmt       = "app %s, package %s"
	DoctorProjectIdentityMissing   = "app name or Android package could not be detected"
	DoctorProjectIdentityRecommend = "Pass --app-name and --app-package when upgrading."

	DoctorConfigLoaded              = "configuration loaded"
	DoctorConfigLoadFailedFmt       = "configuration failed to load: %v"
	DoctorConfigLoadRecommend       = "Fix the TOML in .valen/config.toml or ~/.config/valen/config.toml."
	DoctorConfigValidationRecommend = "Fix or remove the reported keys.\nRun `valen config` to see the effective settings."

	DoctorToolFoundFmt            = "%s: %s"
	DoctorToolMissingFmt          = "%s not found on PATH"
	DoctorToolMissingRecommendFmt = "Install %s and make sure it is on PATH."
	DoctorEditorFoundFmt          = "manual edits open %s"
	DoctorEditorRecommend         = "Set editor.command in .valen/config.toml, or export VISUAL or EDITOR."

	DoctorCredentialsRecommend        = "Fix .valen/.env or re-create it with `valen keys`."
	DoctorProviderDisabledFmt         = "%s disabled"
	DoctorProviderReadyFmt            = "%s ready (%s)"
	DoctorProviderMissingFmt          = "%s: %s is not set"
	DoctorProviderMissingRecommendFmt = "Export %s or store it with `valen keys`."
	DoctorNoProviders                 = "no AI provider is available; patches that fail to apply go straight to manual edits"

	DoctorScratchLeftoverFmt = "%s left over from an earlier run"
	DoctorScratchRecommend   = "Run `valen clean` to remove it."
	DoctorScratchClean       = "no leftover patch directories"

	DoctorFailureSummary = "❌ Some checks failed. Please address the items above."
	DoctorFailureError   = "doctor checks failed"
	DoctorSuccessSummary = "✅ All required checks passed. Valen is ready to upgrade this project."

	DoctorStatusOKLabel        = "[OK]  "
	DoctorStatusWarnLabel      = "[WARN]"
	DoctorStatusFailLabel      = "[FAIL]"
	DoctorResultLineFmt        = "%s %-10s %s\n"
	DoctorRecommendationPrefix = "       💡 "
	DoctorRecommendationIndent = "         "
)
