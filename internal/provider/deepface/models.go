package deepface

// RepresentRequest for POST /represent
type RepresentRequest struct {
	Img              string `json:"img"`              // base64 encoded image
	Model            string `json:"model_name"`       // "ArcFace", "Facenet512", ...
	Detector         string `json:"detector_backend"` // "retinaface", "mtcnn", ...
	Align            bool   `json:"align"`
	EnforceDetection bool   `json:"enforce_detection"`
}

// RepresentResponse from POST /represent
type RepresentResponse struct {
	Results []RepresentResult `json:"results"`
}

type RepresentResult struct {
	Embedding  []float64  `json:"embedding"`
	FacialArea FacialArea `json:"facial_area"`
	// FaceConfidence is absent on older servers; 0 marks the whole-image
	// placeholder returned when enforce_detection is off and nothing was found
	FaceConfidence *float64 `json:"face_confidence,omitempty"`
}

type FacialArea struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	W        int     `json:"w"`
	H        int     `json:"h"`
	LeftEye  *[2]int `json:"left_eye,omitempty"`
	RightEye *[2]int `json:"right_eye,omitempty"`
}
