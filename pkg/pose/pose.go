// Package pose defines the keypoint data model shared by the coaching
// pipeline and derives geometric joint-angle features from raw poses.
package pose

import "time"

// Joint names a single anatomical landmark in the 17-point COCO skeleton.
type Joint string

// The 17 COCO keypoints, in skeleton order.
const (
	Nose          Joint = "nose"
	LeftEye       Joint = "left_eye"
	RightEye      Joint = "right_eye"
	LeftEar       Joint = "left_ear"
	RightEar      Joint = "right_ear"
	LeftShoulder  Joint = "left_shoulder"
	RightShoulder Joint = "right_shoulder"
	LeftElbow     Joint = "left_elbow"
	RightElbow    Joint = "right_elbow"
	LeftWrist     Joint = "left_wrist"
	RightWrist    Joint = "right_wrist"
	LeftHip       Joint = "left_hip"
	RightHip      Joint = "right_hip"
	LeftKnee      Joint = "left_knee"
	RightKnee     Joint = "right_knee"
	LeftAnkle     Joint = "left_ankle"
	RightAnkle    Joint = "right_ankle"
)

// SkeletonJoints lists all 17 joints in skeleton order.
var SkeletonJoints = []Joint{
	Nose, LeftEye, RightEye, LeftEar, RightEar,
	LeftShoulder, RightShoulder, LeftElbow, RightElbow,
	LeftWrist, RightWrist, LeftHip, RightHip,
	LeftKnee, RightKnee, LeftAnkle, RightAnkle,
}

// SkeletonSize is the number of joints in a complete skeleton.
const SkeletonSize = 17

// MinJointConfidence is the default confidence below which a keypoint
// is treated as missing.
const MinJointConfidence = 0.3

// Keypoint is one named joint estimate in image-pixel coordinates.
// Confidence is in [0,1]. Keypoints are immutable once produced.
type Keypoint struct {
	Joint      Joint   `json:"joint"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Snapshot is one timestamped frame of keypoints from the pose source.
type Snapshot struct {
	Timestamp time.Time  `json:"timestamp"`
	Keypoints []Keypoint `json:"keypoints"`

	// Confidence is the pose model's overall score for the frame.
	Confidence float64 `json:"confidence"`
}

// Keypoint returns the named joint and whether it was present in the frame.
func (s *Snapshot) Keypoint(j Joint) (Keypoint, bool) {
	for _, kp := range s.Keypoints {
		if kp.Joint == j {
			return kp, true
		}
	}
	return Keypoint{}, false
}

// Visible reports whether the joint is present with at least minConf confidence.
func (s *Snapshot) Visible(j Joint, minConf float64) bool {
	kp, ok := s.Keypoint(j)
	return ok && kp.Confidence >= minConf
}

// VisibleAll reports whether every listed joint clears minConf.
func (s *Snapshot) VisibleAll(minConf float64, joints ...Joint) bool {
	for _, j := range joints {
		if !s.Visible(j, minConf) {
			return false
		}
	}
	return true
}

// JointCount returns the number of keypoints in the frame.
func (s *Snapshot) JointCount() int {
	return len(s.Keypoints)
}
