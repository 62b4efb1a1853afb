package constants

// Substitution keys supplied by the build system
const (
	// RepoName is the repository the build ran against
	RepoName = "REPO_NAME"

	// BranchName is the branch the build ran against
	BranchName = "BRANCH_NAME"

	// TriggerName is the name of the build trigger that started the build
	TriggerName = "TRIGGER_NAME"

	// TestName identifies the research test being run
	TestName = "_TEST_NAME"

	// FlippyTagClean is the sanitized flippy tag of a research build
	FlippyTagClean = "_FLIPPY_TAG_CLEAN"

	// CommitishClean is the sanitized commit identifier of a research build
	CommitishClean = "_COMMITISH_CLEAN"
)

// ResearchTag marks a build as a research build
const ResearchTag = "research"

var (
	// TriggerSubstitutions must all be present for a trigger badge to be published
	TriggerSubstitutions = []string{RepoName, BranchName, TriggerName}

	// ResearchSubstitutions must all be present for a research badge to be published
	ResearchSubstitutions = []string{TestName, FlippyTagClean, CommitishClean}
)
