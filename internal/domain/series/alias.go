package series

import "github.com/okian/rigdiag/internal/domain/model"

// AliasTable maps a canonical joint name to the key used for it in each
// domain. Joints missing from a domain's table are looked up verbatim.
type AliasTable map[model.Domain]map[string]string

// Resolve returns the key under which joint is recorded in domain d.
func (t AliasTable) Resolve(d model.Domain, joint string) string {
	if byJoint, ok := t[d]; ok {
		if key, ok := byJoint[joint]; ok {
			return key
		}
	}
	return joint
}

// Identity is the alias table that looks every joint up verbatim.
func Identity() AliasTable { return AliasTable{} }

// Body joints are recorded capitalized in the input set and lower-camel in
// the output set.
var bodyJoints = map[string]string{
	"Hips":          "hips",
	"Spine":         "spine",
	"Chest":         "chest",
	"Neck":          "neck",
	"Head":          "head",
	"RightShoulder": "rightShoulder",
	"LeftShoulder":  "leftShoulder",
	"RightUpperArm": "rightUpperArm",
	"LeftUpperArm":  "leftUpperArm",
	"RightLowerArm": "rightLowerArm",
	"LeftLowerArm":  "leftLowerArm",
	"RightHand":     "rightHand",
	"LeftHand":      "leftHand",
	"RightUpperLeg": "rightUpperLeg",
	"LeftUpperLeg":  "leftUpperLeg",
	"RightLowerLeg": "rightLowerLeg",
	"LeftLowerLeg":  "leftLowerLeg",
	"RightFoot":     "rightFoot",
	"LeftFoot":      "leftFoot",
}

// Hands, fingers and segments in the order they appear in finger keys.
// Thumb keeps the same hand/finger/segment ordering as the other fingers.
var (
	Hands    = []string{"right", "left"}
	Fingers  = []string{"Thumb", "Index", "Middle", "Ring", "Little"}
	Segments = []string{"Proximal", "Intermediate", "Distal"}
)

// FingerJoint builds the compound key {hand}{Finger}{Segment}.
func FingerJoint(hand, finger, segment string) string {
	return hand + finger + segment
}

// DefaultAliases returns the recorder's naming table: body joints use the
// capitalized name as canonical and translate to lower-camel for output;
// finger joints use the same lower-camel key in both domains.
func DefaultAliases() AliasTable {
	size := len(bodyJoints) + len(Hands)*len(Fingers)*len(Segments)
	in := make(map[string]string, size)
	out := make(map[string]string, size)
	for canonical, outputKey := range bodyJoints {
		in[canonical] = canonical
		out[canonical] = outputKey
	}
	for _, h := range Hands {
		for _, fg := range Fingers {
			for _, s := range Segments {
				key := FingerJoint(h, fg, s)
				in[key] = key
				out[key] = key
			}
		}
	}
	return AliasTable{model.DomainInput: in, model.DomainOutput: out}
}
