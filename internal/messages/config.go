package messages

// Config messages for configuration, credentials and logging setup.
const (
	// ConfigValidationFailed is the ErrConfigValidation text.
	ConfigValidationFailed    = "config validation failed"
	ConfigHomeDirFmt          = "resolve home directory: %w"
	ConfigInvalidDurationFmt  = "invalid duration %q: %w"
	ConfigReadFailedFmt       = "read config %s: %w"
	ConfigInvalidFmt          = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt = "%s: unrecognized config keys:\n%s"
	ConfigEncodeFailedFmt     = "encode config: %w"

	ConfigDiffURLPlaceholdersFmt = "%s: upgrade.diff_url must contain {from} and {to}"
	ConfigAssetURLPlaceholderFmt = "%s: upgrade.asset_url must contain {version}"
	ConfigHelperURLRequiredFmt   = "%s: upgrade.helper_url is required"
	ConfigScratchDirsRequiredFmt = "%s: upgrade.patches_dir and upgrade.templates_dir are required"
	ConfigScratchDirsDistinctFmt = "%s: upgrade.patches_dir and upgrade.templates_dir must differ"
	ConfigNegativeDurationFmt    = "%s: %s must not be negative"

	ConfigProviderNameRequiredFmt       = "%s: providers[%d].name is required"
	ConfigProviderDuplicateFmt          = "%s: duplicate provider %q declared at providers[%d] and providers[%d]"
	ConfigProviderKindInvalidFmt        = "%s: provider %q has kind %q (expected openai, claude or gemini)"
	ConfigProviderModelRequiredFmt      = "%s: provider %q needs a model"
	ConfigProviderGeminiProjectFmt      = "%s: gemini provider %q needs project and location"
	ConfigProviderCredentialRequiredFmt = "%s: provider %q needs credential_env"

	DotenvReadFileFmt       = "read env file %s: %w"
	DotenvInvalidFileFmt    = "invalid env file %s: %w"
	DotenvWriteFileFmt      = "write env file %s: %w"
	DotenvLineErrorFmt      = "line %d: %w"
	DotenvReadFailedFmt     = "read env content: %w"
	DotenvExpectedKeyValue  = "expected KEY=VALUE"
	DotenvUnterminatedQuote = "unterminated quoted value"
	DotenvTrailingContent   = "unexpected content after quoted value"

	LoggingInvalidLevelFmt = "invalid log level %q (expected debug, info, warn or error)"
)
