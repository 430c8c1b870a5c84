package compare

import (
	"fmt"
	"strings"
)

// Status is the final classification of a comparison, plus the triage states
// a review workflow moves a snapshot through afterwards.
type Status int

const (
	// Comparison outcomes.
	StatusPassed Status = iota
	StatusFailed
	StatusFailedToFindImageInRegion
	StatusDifferentSize
	StatusMissing
	StatusNeedsApproval

	// Triage actions.
	StatusCopyToMaster
	StatusRejected
	StatusRemoveFromMaster

	// Performed triage actions.
	StatusCopiedToMaster
	StatusRemovedFromMaster

	// The image is a master image, not a comparison result.
	StatusMasterImage
)

var statusText = map[Status]string{
	StatusPassed:                    "Passed",
	StatusFailed:                    "Failed",
	StatusFailedToFindImageInRegion: "Failed To Find Image In Region",
	StatusDifferentSize:             "Different Size",
	StatusMissing:                   "Missing",
	StatusNeedsApproval:             "Needs Approval",
	StatusCopyToMaster:              "Copy To Master",
	StatusRejected:                  "Rejected",
	StatusRemoveFromMaster:          "Remove From Master",
	StatusCopiedToMaster:            "Copied To Master",
	StatusRemovedFromMaster:         "Removed From Master",
	StatusMasterImage:               "Master",
}

const (
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiPurple = "\033[35m"
)

var statusANSI = map[Status]string{
	StatusPassed:                    ansiGreen,
	StatusFailed:                    ansiRed,
	StatusFailedToFindImageInRegion: ansiRed,
	StatusDifferentSize:             ansiRed,
	StatusMissing:                   ansiRed,
	StatusNeedsApproval:             ansiPurple,
	StatusCopyToMaster:              ansiYellow,
	StatusRejected:                  ansiRed,
	StatusRemoveFromMaster:          ansiRed,
	StatusCopiedToMaster:            ansiYellow,
	StatusRemovedFromMaster:         ansiRed,
	StatusMasterImage:               ansiGreen,
}

// String returns the human-readable status text.
func (s Status) String() string {
	if text, ok := statusText[s]; ok {
		return text
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ANSIColor returns the terminal color escape used when displaying the status.
func (s Status) ANSIColor() string {
	return statusANSI[s]
}

// Annotate prepends a counter and embeds the status into a file name, giving
// review tooling a stable way to tag result images.
func (s Status) Annotate(counter int, original string) string {
	return fmt.Sprintf("%d__%s__%s", counter, s, original)
}

// ParseStatus converts a status string back into a Status. Underscores and
// spaces are ignored and matching is case-insensitive.
func ParseStatus(status string) (Status, error) {
	normalized := strings.ToLower(strings.NewReplacer("_", "", " ", "").Replace(status))
	switch normalized {
	case "passed":
		return StatusPassed, nil
	case "failed":
		return StatusFailed, nil
	case "failedtofindimageinregion":
		return StatusFailedToFindImageInRegion, nil
	case "differentsize":
		return StatusDifferentSize, nil
	case "missing":
		return StatusMissing, nil
	case "needsapproval":
		return StatusNeedsApproval, nil
	case "copytomaster":
		return StatusCopyToMaster, nil
	case "rejected":
		return StatusRejected, nil
	case "removefrommaster":
		return StatusRemoveFromMaster, nil
	case "copiedtomaster":
		return StatusCopiedToMaster, nil
	case "removedfrommaster":
		return StatusRemovedFromMaster, nil
	case "master":
		return StatusMasterImage, nil
	}
	return 0, fmt.Errorf("unable to parse status: %q", status)
}
