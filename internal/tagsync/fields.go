package tagsync

// Block and field names of the cinematic scene tags.
const (
	blockShots    = "shots"
	blockFrames   = "frame data"
	blockObjects  = "objects"
	blockDialogue = "dialogue"
	blockScript   = "script"
	blockEffects  = "effects"

	fieldName           = "name"
	fieldFrameCount     = "frame count"
	fieldIdentifier     = "identifier"
	fieldAnimationGraph = "animation graph"
	fieldObjectType     = "object type"
	fieldShotsActive    = "shots active"
	fieldAnchorPosition = "anchor position"
	fieldAnchorYaw      = "anchor yaw"
	fieldAnchorPitch    = "anchor pitch"
	fieldAnchorRoll     = "anchor roll"

	fieldPosition     = "camera position"
	fieldForward      = "camera forward"
	fieldUp           = "camera up"
	fieldFocalLength  = "focal length"
	fieldDepthOfField = "depth of field"
	fieldNearPlane    = "near focal plane distance"
	fieldFarPlane     = "far focal plane distance"
	fieldFocalDepth   = "focal depth"
	fieldNearDepth    = "near focal depth"
	fieldFarDepth     = "far focal depth"
	fieldBlur         = "blur amount"
	fieldNearBlur     = "near blur amount"
	fieldFarBlur      = "far blur amount"
)

// Tag groups accepted for object references, in preference order.
var (
	graphGroups  = []string{"model_animation_graph"}
	objectGroups = []string{"biped", "vehicle", "giant", "scenery", "crate", "device_machine", "weapon", "equipment", "effect_scenery"}
)
