package diagnosis

// suggestions maps each actionable verdict to its ordered tuning advice.
// Verdicts missing here need no action.
var suggestions = map[Category]map[Verdict][]string{
	CategoryRange: {
		VerdictImmobile: {
			"Check that the joint is tracked at all: landmark visibility may be too low",
			"Lower SMOOTHING.POSE_TEMPORAL (e.g. 0.5 -> 0.3)",
			"Raise SMOOTHING.VRM_BONE_SLERP (e.g. 0.8 -> 0.9)",
		},
		VerdictRestricted: {
			"Lower SMOOTHING.POSE_TEMPORAL (e.g. 0.5 -> 0.3)",
			"Raise SMOOTHING.VRM_BONE_SLERP (e.g. 0.8 -> 0.9)",
			"Review the angle scale factors (ANGLES.ARM_X_SCALE)",
		},
	},
	CategoryJitter: {
		VerdictOverSmoothed: {
			"Temporal smoothing is too strong: lower SMOOTHING.POSE_TEMPORAL",
			"Raise SMOOTHING.VRM_BONE_SLERP for faster follow-through",
			"Check for several smoothing stages accumulating",
		},
		VerdictJittery: {
			"Raise SMOOTHING.POSE_TEMPORAL to damp frame-to-frame noise",
			"Filter landmarks with low visibility before solving rotations",
		},
	},
	CategoryCrosstalk: {
		VerdictLeak: {
			"Compute the Y rotation from the palm orientation only, not the wrist position",
			"Remove the Z (up/down) component before computing the Y rotation",
			"Detect rotation only in the plane perpendicular to the shoulder-elbow vector",
		},
	},
	CategoryFidelity: {
		VerdictLagging: {
			"Raise SMOOTHING.VRM_BONE_SLERP (e.g. 0.8 -> 0.9)",
			"Check the VRM0/VRM1 coordinate system differences",
		},
		VerdictPoor: {
			"Check the VRM0/VRM1 coordinate system differences",
			"Verify bone name mapping between input and output",
			"Review ANGLES.ARM_Z_OFFSET (currently pi/2)",
		},
	},
	CategoryTiming: {
		VerdictUnsteady: {
			"Reduce per-frame work to stabilize the capture rate",
		},
		VerdictUnstable: {
			"Frame intervals vary widely: check CPU load and camera frame rate",
			"Use timestamps rather than frame counts when filtering",
		},
	},
	CategoryCompleteness: {
		VerdictSparse: {
			"Most frames lack input or output rotations: check that the avatar is loaded",
			"Confirm the pose detector runs on every frame",
		},
		VerdictPartial: {
			"Some frames lack rotations: check detection confidence thresholds",
		},
	},
	CategoryReach: {
		VerdictStatic: {
			"Arms barely moved: record a session with wider arm motion",
			"Check that the camera frames the whole upper body",
		},
		VerdictModerate: {
			"Record a session with larger vertical arm motion for a full check",
		},
	},
}

// Suggestions returns the advice for verdict v of category c. The result is
// a copy and may be empty.
func Suggestions(c Category, v Verdict) []string {
	return append([]string(nil), suggestions[c][v]...)
}
