package badges

import "strings"

const (
	triggerTemplate  = "builds/{repo}/branches/{branch}/{trigger}.svg"
	researchTemplate = "builds/research-builds/{test_name}/{flippy_tag}/{commitish}.svg"
)

// TriggerBadgePath returns the key a trigger badge is published to
func TriggerBadgePath(repo, branch, trigger string) string {
	return strings.NewReplacer(
		"{repo}", repo,
		"{branch}", branch,
		"{trigger}", trigger,
	).Replace(triggerTemplate)
}

// ResearchBadgePath returns the key a research build badge is published to
func ResearchBadgePath(testName, flippyTag, commitish string) string {
	return strings.NewReplacer(
		"{test_name}", testName,
		"{flippy_tag}", flippyTag,
		"{commitish}", commitish,
	).Replace(researchTemplate)
}
