package messages

// System messages for external tools, locking, HTTP and prompts.
const (
	GitCommandFailedFmt       = "git %s: exit status %d"
	GitCommandFailedDetailFmt = "git %s: exit status %d: %s"
	GitTimeoutFmt             = "git %s: %w"
	GitStartFailedFmt         = "start %s: %w"

	// LockHeld is the ErrLocked text.
	LockHeld       = "lock is held by another process"
	LockOpenFmt    = "open lock file %s: %w"
	LockAcquireFmt = "lock %s: %w"
	LockReleaseFmt = "release lock %s: %w"

	BrowserOpenFmt = "open %s in browser: %w"

	EditorFailed     = "editor failed"
	EditorNotFound   = "no editor found; set editor.command, $VISUAL or $EDITOR"
	EditorTimeoutFmt = "%s timed out after %s"
	EditorRunFmt     = "%s: %w"

	DepsToolFailedFmt   = "%s: %w"
	DepsReadManifestFmt = "read %s: %w"
	DepsDiffManifestFmt = "compare package.json: %w"
	DepsNoChanges       = "No dependency changes."
	DepsChangesHeader   = "Dependency changes:"
	DepsAddedFmt        = "  + %s %s %s\n"
	DepsRemovedFmt      = "  - %s %s %s\n"
	DepsChangedFmt      = "  ~ %s %s %s -> %s\n"

	RndiffFetchFailed            = "fetch failed"
	RndiffCreateRequestFmt       = "create request for %s: %w"
	RndiffRequestFailedFmt       = "GET %s: %w"
	RndiffStatusFmt              = "GET %s: %s"
	RndiffReadBodyFmt            = "read %s: %w"
	RndiffRetriesExhaustedFmt    = "GET %s: retries exhausted"
	RndiffDecodeRegistryFmt      = "decode registry response: %w"
	RndiffRegistryMissingVersion = "registry response has no version"

	// PromptBack is the ErrBack text.
	PromptBack             = "back"
	PromptCancelled        = "cancelled"
	PromptRequiresTerminal = "this prompt requires an interactive terminal; re-run with --yes to accept defaults"

	PromptNoOptionsFmt     = "%s: no options to choose from"
	PromptOptionFmt        = "%s %d) %s\n"
	PromptChoiceFmt        = "Choose 1-%d: "
	PromptInvalidChoiceFmt = "invalid choice %q"
	PromptRetryChoiceFmt   = "Please enter a number between 1 and %d.\n"
	PromptYesDefaultFmt    = "%s [Y/n]: "
	PromptNoDefaultFmt     = "%s [y/N]: "
	PromptInvalidResponse  = "invalid response %q (expected y or n)"
	PromptRetryYesNo       = "Please answer y or n."
	PromptInputFmt         = "%s: "
	PromptInputDefaultFmt  = "%s [%s]: "
)
