package records

import "strings"

// Action identifies one step in the fixed processing sequence.
type Action string

const (
	ActionCleanup          Action = "cleanup"
	ActionRename           Action = "rename"
	ActionExtract          Action = "extract"
	ActionMovingAttachment Action = "moving_attachment"
	ActionClassify         Action = "classify"
	ActionTagging          Action = "tagging"
	ActionApplyingTags     Action = "applying_tags"
	ActionRecommendName    Action = "recommend_name"
	ActionApplyingName     Action = "applying_name"
	ActionFormatting       Action = "formatting"
	ActionMoving           Action = "moving"
	ActionCompleted        Action = "completed"
)

// actionOrder is the pipeline's execution order. ActionCompleted is a
// terminal marker written after the final move, not an executable stage.
var actionOrder = []Action{
	ActionCleanup,
	ActionRename,
	ActionExtract,
	ActionMovingAttachment,
	ActionClassify,
	ActionTagging,
	ActionApplyingTags,
	ActionRecommendName,
	ActionApplyingName,
	ActionFormatting,
	ActionMoving,
	ActionCompleted,
}

var actionSet = func() map[Action]struct{} {
	set := make(map[Action]struct{}, len(actionOrder))
	for _, action := range actionOrder {
		set[action] = struct{}{}
	}
	return set
}()

var actionLabels = map[Action]string{
	ActionCleanup:          "file cleaned up",
	ActionRename:           "file renamed",
	ActionExtract:          "text extracted",
	ActionMovingAttachment: "attachments moved",
	ActionClassify:         "classified",
	ActionTagging:          "tags recommended",
	ActionApplyingTags:     "tags applied",
	ActionRecommendName:    "name recommended",
	ActionApplyingName:     "name applied",
	ActionFormatting:       "formatted",
	ActionMoving:           "moved",
	ActionCompleted:        "completed",
}

// AllActions returns the ordered list of pipeline actions, including the
// terminal completed marker.
func AllActions() []Action {
	cp := make([]Action, len(actionOrder))
	copy(cp, actionOrder)
	return cp
}

// ExecutableActions returns the ordered stages the scheduler dispatches.
func ExecutableActions() []Action {
	return AllActions()[: len(actionOrder)-1 : len(actionOrder)-1]
}

// ParseAction converts a string into a known Action.
func ParseAction(value string) (Action, bool) {
	normalized := Action(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := actionSet[normalized]
	return normalized, ok
}

// Label returns the human-readable completion label shown in the CLI and
// dashboard for this action.
func (a Action) Label() string {
	if label, ok := actionLabels[a]; ok {
		return label
	}
	return string(a)
}

// Index returns the action's position in execution order, or -1 when the
// action is unknown.
func (a Action) Index() int {
	for i, action := range actionOrder {
		if action == a {
			return i
		}
	}
	return -1
}
