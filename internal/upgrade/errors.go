package upgrade

import (
	"errors"

	"github.com/valen-cli/valen/internal/messages"
)

var (
	// ErrNotReactNativeProject reports a directory without the React Native manifests.
	ErrNotReactNativeProject = errors.New(messages.UpgradeNotReactNativeProject)
	// ErrInvalidRequest reports a missing or malformed upgrade parameter.
	ErrInvalidRequest = errors.New(messages.UpgradeInvalidRequest)
	// ErrMalformedDiff reports a diff section header that cannot be parsed.
	ErrMalformedDiff = errors.New(messages.UpgradeMalformedDiff)
	// ErrEmptyPatch reports a patch with no hunks to apply.
	ErrEmptyPatch = errors.New(messages.UpgradeEmptyPatch)
	// ErrDuplicatePatchPath reports two changes that normalize to the same target or patch file.
	ErrDuplicatePatchPath = errors.New(messages.UpgradeDuplicatePatchPath)
	// ErrUnsafePath reports a target path escaping the project root.
	ErrUnsafePath = errors.New(messages.UpgradeUnsafePath)
	// ErrToolApply reports a git apply failure.
	ErrToolApply = errors.New(messages.UpgradeToolApplyFailed)
	// ErrStrategyDeclined lets the applicator move on to the next strategy.
	ErrStrategyDeclined = errors.New(messages.UpgradeStrategyDeclined)
	// ErrProjectLocked reports another run holding the project lock.
	ErrProjectLocked = errors.New(messages.UpgradeProjectLocked)
	// ErrUpgradeAborted reports an explicit abort by the operator.
	ErrUpgradeAborted = errors.New(messages.UpgradeAborted)
)
