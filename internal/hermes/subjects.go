package hermes

import (
	"strconv"
	"strings"
)

const (
	SubjectRunComputedAll  = "rankboard.run.*.computed"
	SubjectRunFinalizedAll = "rankboard.run.*.finalized"
	SubjectRunRefreshedAll = "rankboard.run.*.refreshed"
	SubjectCriteriaScores  = "rankboard.criteria_scores.updated"

	StreamName   = "RANKBOARD_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

func runSubject(runID int64, event string) string {
	return "rankboard.run." + strconv.FormatInt(runID, 10) + "." + event
}

func SubjectRunComputed(runID int64) string  { return runSubject(runID, "computed") }
func SubjectRunFinalized(runID int64) string { return runSubject(runID, "finalized") }
func SubjectRunRefreshed(runID int64) string { return runSubject(runID, "refreshed") }

// ParseRunSubject extracts the run id and event name from a
// rankboard.run.<id>.<event> subject.
func ParseRunSubject(subject string) (runID int64, event string, ok bool) {
	parts := strings.Split(subject, ".")
	if len(parts) != 4 || parts[0] != "rankboard" || parts[1] != "run" {
		return 0, "", false
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, "", false
	}
	return id, parts[3], true
}
