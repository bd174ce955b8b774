package messages

// Upgrade messages for the upgrade assistant pipeline.
const (
	UpgradeNotReactNativeProject = "not a React Native project"
	UpgradeInvalidRequest        = "invalid upgrade request"
	UpgradeMalformedDiff         = "malformed diff"
	UpgradeEmptyPatch            = "patch has no hunks to apply"
	UpgradeDuplicatePatchPath    = "duplicate patch path"
	UpgradeUnsafePath            = "path escapes the project root"
	UpgradeToolApplyFailed       = "git apply failed"
	UpgradeStrategyDeclined      = "strategy declined"
	UpgradeProjectLocked         = "another upgrade is running in this project"
	UpgradeAborted               = "upgrade aborted"

	UpgradeMissingManifestFmt = "%s not found"
	UpgradeReadManifestFmt    = "read %s: %w"
	UpgradeParseManifestFmt   = "parse %s: %w"
	UpgradeMissingDependency  = "package.json has no react-native dependency"
	UpgradeRequestMissingFmt  = "%s is required"
	UpgradeRequestAppNameFmt  = "app name %q must be letters, digits or underscores"
	UpgradeRequestPackageFmt  = "app package %q must be a dotted identifier such as com.example.app"
	UpgradeRequestNotNewerFmt = "target version %s must be newer than current version %s"
	UpgradeRequestTokenFmt    = "%s %q must not contain the template name %s"
	UpgradeInvalidVersionFmt  = "invalid version %q (expected X.Y.Z)"

	UpgradeSplitLineFmt        = "diff line %d: %w"
	UpgradeDuplicateTargetFmt  = "%s and %s both map to %s"
	UpgradeCreatePatchDirFmt   = "create patch directory %s: %w"
	UpgradeWritePatchFmt       = "write patch %s: %w"
	UpgradeReadPatchFmt        = "read patch %s: %w"
	UpgradeReadTargetFmt       = "read %s: %w"
	UpgradeWriteTargetFmt      = "write %s: %w"
	UpgradeWritePreviewFmt     = "write preview under %s: %w"
	UpgradePreviewTruncatedFmt = "... truncated after %d lines"

	UpgradePlanHeaderFmt   = "Upgrade plan: %d files\n"
	UpgradePlanCreatedFmt  = "  + %s (new, %d lines)\n"
	UpgradePlanDeletedFmt  = "  - %s (deleted)\n"
	UpgradePlanBinaryFmt   = "  ~ %s (binary)\n"
	UpgradePlanModifiedFmt = "  ~ %s (+%d -%d)\n"

	UpgradeSummaryHeaderFmt = "\nUpgrade summary, %d files:\n"
	UpgradeSummaryLineFmt   = "  %s: %d\n"
	UpgradeSummaryBranchFmt = "Changes are on branch %s.\n"

	UpgradeFetchingFmt          = "Fetching React Native diff %s -> %s...\n"
	UpgradeNothingToDo          = "The release diff is empty. Nothing to do."
	UpgradeConfirmPlanFmt       = "Apply %d changes?"
	UpgradePlanDeclined         = "No changes applied."
	UpgradeConfirmFileFmt       = "Apply changes to %s?"
	UpgradeFileFailedFmt        = "Could not apply %s: %v\n"
	UpgradeFileRecoveryTitleFmt = "%s was not updated. What now?"
	UpgradePipelineFailedFmt    = "Upgrade failed: %v\n"
	UpgradeAttemptsExhaustedFmt = "gave up after %d attempts"
	UpgradeRecoveryTitle        = "The upgrade did not finish. What now?"

	UpgradeOptionRetry      = "Retry upgrade"
	UpgradeOptionHelper     = "Open upgrade helper in browser"
	UpgradeOptionAbort      = "Abort upgrade"
	UpgradeOptionSkipChange = "Skip this change"
	UpgradeOptionManualEdit = "Try manual edit"

	UpgradeConfirmAlignFmt  = "Align package.json dependencies with react-native %s?"
	UpgradeAlignFailedFmt   = "Dependency alignment failed, continuing: %v\n"
	UpgradeNotGitRepository = "Not a git repository; files are changed in place."
	UpgradeConfirmStash     = "The working tree has uncommitted changes. Stash them before upgrading?"
	UpgradeStashMessageFmt  = "valen: before upgrade %s to %s"
	UpgradeDirtyContinue    = "Continuing with uncommitted changes."
	UpgradeOnBranchFmt      = "Working on branch %s\n"
	UpgradeOpeningHelperFmt = "Opening %s\n"

	ApplyStrategyDeclinedFmt = "%s could not update %s: %v\n"
	ApplyNoStrategyFmt       = "Nothing could update %s; it is left unchanged.\n"
	ApplyDeleteMissingFmt    = "%s is already gone.\n"
	ApplyDeleteConfirmFmt    = "Delete %s?"
	ApplyDeleteKeptFmt       = "Kept %s.\n"
	ApplyDeleteFailedFmt     = "delete %s: %w"
	ApplyDeletedFmt          = "Deleted %s\n"
	ApplyAssetConfirmFmt     = "Replace %s with the react-native %s version?"
	ApplyAssetWrittenFmt     = "Wrote %s (%d bytes)\n"

	StrategyTool             = "git apply"
	StrategyAI               = "AI rewrite"
	StrategyManual           = "manual edit"
	StrategyAIRequestFmt     = "Asking an AI provider to update %s...\n"
	StrategyAIPreviewFmt     = "Proposed by %s for %s:\n"
	StrategyAIScratchFmt     = "Full rewrite saved to %s\n"
	StrategyAIConfirmFmt     = "Write the proposed %s?"
	StrategyManualNoteFmt    = "Apply this patch to %s by hand"
	StrategyManualConfirmFmt = "Open %s in your editor?"

	ResolveMissingTargetFmt = "%s does not exist in this project.\n"
	ResolveMenuTitleFmt     = "Where should the changes for %s go?"
	ResolveOptionSearch     = "Search project"
	ResolveOptionSpecify    = "Enter a path"
	ResolveOptionCreate     = "Create the file"
	ResolveOptionSkip       = "Skip"
	ResolveOptionBack       = "Back"
	ResolveNoCandidatesFmt  = "No files named %s found.\n"
	ResolveSearchTitleFmt   = "Files named %s"
	ResolveSpecifyTitle     = "Path relative to the project root"
	ResolvePathNotFoundFmt  = "%s not found.\n"
	ResolveCreateFileFmt    = "create %s: %w"
	ResolveCreatedFmt       = "Created %s\n"
	ResolveSearchFailedFmt  = "search for %s: %w"

	// CompletionNoProviders is the ErrNoProviders text.
	CompletionNoProviders    = "no AI provider has a credential"
	CompletionProviderFailed = "AI provider failed"
	CompletionExhausted      = "every AI provider failed or was declined"
	CompletionUnknownKind    = "unknown provider kind"
	CompletionCreateClient   = "create LLM client"
	CompletionCreateSession  = "create LLM session"
	CompletionGenerate       = "generate completion"
	CompletionEmptyResponse  = "empty response"

	CompletionSystemPrompt = "You update source files of a React Native project. Reply with the complete updated file content only, without explanations or markdown fences."

	// CompletionPromptFmt takes the target path, its current content and the patch.
	CompletionPromptFmt = `Apply the following unified diff to the file %s.

Current content:
<file>
%s
</file>

Diff:
<diff>
%s
</diff>

Return the complete updated file.`
)
